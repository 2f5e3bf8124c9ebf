package model

// swagger:model
type Question struct {
	UUIDBase
	DebateTopicID string  `gorm:"type:varchar(36);index;not null" json:"debateTopicId"`
	Text          string  `gorm:"type:text;not null" json:"text"`
	Tag           string  `gorm:"type:varchar(100)" json:"tag,omitempty"`
	Side          Side    `gorm:"type:varchar(10);not null" json:"side"`
	Author        string  `gorm:"type:varchar(100);not null" json:"author"`
	VotesUp       int     `gorm:"not null;default:0" json:"votesUp"`
	VotesDown     int     `gorm:"not null;default:0" json:"votesDown"`
	UniqueID      *string `gorm:"type:varchar(100);uniqueIndex" json:"uniqueId,omitempty"`

	// 外键约束，辩题被删除后不会留下孤儿问题
	Topic *Topic `gorm:"foreignKey:DebateTopicID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model
type Reply struct {
	UUIDBase
	QuestionID    *string `gorm:"type:varchar(36);index" json:"questionId,omitempty"`
	ParentReplyID *string `gorm:"type:varchar(36);index" json:"parentReplyId,omitempty"`
	Text          string  `gorm:"type:text;not null" json:"text"`
	Side          Side    `gorm:"type:varchar(10);not null" json:"side"`
	Author        string  `gorm:"type:varchar(100);not null" json:"author"`
	VotesUp       int     `gorm:"not null;default:0" json:"votesUp"`
	VotesDown     int     `gorm:"not null;default:0" json:"votesDown"`
	UniqueID      *string `gorm:"type:varchar(100);uniqueIndex" json:"uniqueId,omitempty"`
	Depth         int     `gorm:"not null;default:0" json:"depth"`

	Question    *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
	ParentReply *Reply    `gorm:"foreignKey:ParentReplyID;constraint:OnDelete:CASCADE" json:"-" swaggerignore:"true"`
}

func (Reply) TableName() string {
	return "replies"
}

// Parent 存储行矛盾（两列都有或都没有）时 ok=false
func (r *Reply) Parent() (ParentRef, bool) {
	return ParentFromColumns(r.QuestionID, r.ParentReplyID)
}
