package model

// swagger:model
type ContactMessage struct {
	UUIDBase
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	Email   string `gorm:"type:varchar(255);not null" json:"email"`
	Subject string `gorm:"type:varchar(255);not null" json:"subject"`
	Message string `gorm:"type:text;not null" json:"message"`
	IsRead  bool   `gorm:"not null;index" json:"isRead"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}
