package model

// swagger:model
type Topic struct {
	UUIDBase
	Title       string `gorm:"type:varchar(255);uniqueIndex;not null" json:"title"`
	LeftLabel   string `gorm:"type:varchar(100);not null" json:"leftLabel"`
	RightLabel  string `gorm:"type:varchar(100);not null" json:"rightLabel"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"not null" json:"isActive"`
}

func (Topic) TableName() string {
	return "debate_topics"
}
