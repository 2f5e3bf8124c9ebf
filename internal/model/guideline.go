package model

// swagger:model
type Guideline struct {
	BaseModel
	Text         string `gorm:"type:text;not null" json:"text"`
	DisplayOrder int    `gorm:"not null;default:0;index" json:"displayOrder"`
	IsActive     bool   `gorm:"not null" json:"isActive"`
}

func (Guideline) TableName() string {
	return "guidelines"
}
