package model

// ParentKind 回复/附件的归属类型
type ParentKind string

const (
	ParentQuestion ParentKind = "question"
	ParentReply    ParentKind = "reply"
)

// ParentRef 问题或回复的带标签引用，存储层仍是两个可空列
type ParentRef struct {
	Kind ParentKind
	ID   string
}

// ParentFromColumns 两列中恰好一列非空时返回引用，否则 ok=false
func ParentFromColumns(questionID, replyID *string) (ParentRef, bool) {
	q := questionID != nil && *questionID != ""
	r := replyID != nil && *replyID != ""
	switch {
	case q && !r:
		return ParentRef{Kind: ParentQuestion, ID: *questionID}, true
	case r && !q:
		return ParentRef{Kind: ParentReply, ID: *replyID}, true
	}
	return ParentRef{}, false
}

// Columns 拆回 (questionID, replyID) 两列
func (p ParentRef) Columns() (questionID, replyID *string) {
	id := p.ID
	if p.Kind == ParentQuestion {
		return &id, nil
	}
	return nil, &id
}

func (p ParentRef) IsQuestion() bool { return p.Kind == ParentQuestion }

// Side 辩论立场
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

const DefaultAuthor = "Anonymous"
