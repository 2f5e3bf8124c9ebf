package model

import "time"

// AttachmentView 附件响应，额外带可读的文件大小
type AttachmentView struct {
	ID              string    `json:"id"`
	FileName        string    `json:"fileName"`
	FileSize        int64     `json:"fileSize"`
	FormattedSize   string    `json:"formattedSize"`
	FileType        string    `json:"fileType"`
	StorageURL      string    `json:"storageUrl"`
	StorageProvider string    `json:"storageProvider"`
	UploadedBy      string    `json:"uploadedBy"`
	DisplayOrder    int       `json:"displayOrder"`
	CreatedAt       time.Time `json:"createdAt"`
}

type EvidenceView struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ReplyView 回复树节点；叶子节点的 Replies 为空数组而不是 null
type ReplyView struct {
	ID            string           `json:"id"`
	QuestionID    *string          `json:"questionId"`
	ParentReplyID *string          `json:"parentReplyId"`
	Text          string           `json:"text"`
	Side          Side             `json:"side"`
	Author        string           `json:"author"`
	VotesUp       int              `json:"votesUp"`
	VotesDown     int              `json:"votesDown"`
	UniqueID      *string          `json:"uniqueId"`
	Depth         int              `json:"depth"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	Replies       []*ReplyView     `json:"replies"`
	Attachments   []AttachmentView `json:"attachments"`
	EvidenceURLs  []EvidenceView   `json:"evidenceUrls"`
}

type QuestionView struct {
	ID            string           `json:"id"`
	DebateTopicID string           `json:"debateTopicId"`
	Text          string           `json:"text"`
	Tag           string           `json:"tag"`
	Side          Side             `json:"side"`
	Author        string           `json:"author"`
	VotesUp       int              `json:"votesUp"`
	VotesDown     int              `json:"votesDown"`
	UniqueID      *string          `json:"uniqueId"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
	Replies       []*ReplyView     `json:"replies"`
	Attachments   []AttachmentView `json:"attachments"`
	EvidenceURLs  []EvidenceView   `json:"evidenceUrls"`
}

// VoteResult 投票后的计数
type VoteResult struct {
	ID        string `json:"id"`
	VotesUp   int    `json:"votesUp"`
	VotesDown int    `json:"votesDown"`
}

// VoteEvent 投票后推送给实时连接的计数快照
type VoteEvent struct {
	Target    ParentKind `json:"target"`
	ID        string     `json:"id"`
	VotesUp   int        `json:"votesUp"`
	VotesDown int        `json:"votesDown"`
}

type AdminInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type LoginResponse struct {
	Success bool      `json:"success"`
	Token   string    `json:"token"`
	User    AdminInfo `json:"user"`
}

type UserInfo struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	ProfilePicture string     `json:"profilePicture"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastLogin      *time.Time `json:"lastLogin"`
}

type UserLoginResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    UserInfo `json:"user"`
	Message string   `json:"message,omitempty"`
}

func NewUserInfo(u *User) UserInfo {
	return UserInfo{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		LastLogin:      u.LastLogin,
	}
}

func NewAdminInfo(a *AdminUser) AdminInfo {
	return AdminInfo{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		FullName: a.FullName,
	}
}

// FAQItem 常见问题
type FAQItem struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}
