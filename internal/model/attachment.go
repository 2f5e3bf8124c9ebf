package model

// swagger:model
type Attachment struct {
	UUIDBase
	QuestionID      *string `gorm:"type:varchar(36);index" json:"questionId,omitempty"`
	ReplyID         *string `gorm:"type:varchar(36);index" json:"replyId,omitempty"`
	FileName        string  `gorm:"type:varchar(255);not null" json:"fileName"`
	FileSize        int64   `gorm:"not null" json:"fileSize"`
	FileType        string  `gorm:"type:varchar(100)" json:"fileType"`
	StorageURL      string  `gorm:"type:varchar(1000);not null" json:"storageUrl"`
	StorageProvider string  `gorm:"type:varchar(20);not null" json:"storageProvider"`
	StorageKey      string  `gorm:"type:varchar(500);not null" json:"-"`
	UploadedBy      string  `gorm:"type:varchar(100)" json:"uploadedBy"`
	DisplayOrder    int     `gorm:"not null;default:0" json:"displayOrder"`

	Question *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
	Reply    *Reply    `gorm:"foreignKey:ReplyID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
}

func (Attachment) TableName() string {
	return "attachments"
}

func (a *Attachment) Owner() (ParentRef, bool) {
	return ParentFromColumns(a.QuestionID, a.ReplyID)
}

// swagger:model
type EvidenceURL struct {
	UUIDBase
	QuestionID   *string `gorm:"type:varchar(36);index" json:"questionId,omitempty"`
	ReplyID      *string `gorm:"type:varchar(36);index" json:"replyId,omitempty"`
	URL          string  `gorm:"type:varchar(2000);not null" json:"url"`
	Title        string  `gorm:"type:varchar(255)" json:"title"`
	DisplayOrder int     `gorm:"not null;default:0" json:"displayOrder"`

	Question *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
	Reply    *Reply    `gorm:"foreignKey:ReplyID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
}

func (EvidenceURL) TableName() string {
	return "evidence_urls"
}

func (e *EvidenceURL) Owner() (ParentRef, bool) {
	return ParentFromColumns(e.QuestionID, e.ReplyID)
}
