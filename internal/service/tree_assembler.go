package service

import (
	"context"
	"debate_backend/internal/model"
	"debate_backend/internal/repository"
	"debate_backend/internal/util"

	"gorm.io/gorm"
)

// TreeAssembler 组装问题及其嵌套回复树。
// 按层批量查询：每一层只发一次子回复查询、一次附件查询、一次证据查询，
// 查询次数与树深度成正比而不是与节点数成正比。一次组装内的所有读取在同一个事务中完成。
type TreeAssembler struct {
	DB             *gorm.DB
	TopicRepo      *repository.TopicRepository
	QuestionRepo   *repository.QuestionRepository
	ReplyRepo      *repository.ReplyRepository
	AttachmentRepo *repository.AttachmentRepository
	EvidenceRepo   *repository.EvidenceRepository
}

func NewTreeAssembler(
	db *gorm.DB,
	topicRepo *repository.TopicRepository,
	questionRepo *repository.QuestionRepository,
	replyRepo *repository.ReplyRepository,
	attachmentRepo *repository.AttachmentRepository,
	evidenceRepo *repository.EvidenceRepository,
) *TreeAssembler {
	return &TreeAssembler{
		DB:             db,
		TopicRepo:      topicRepo,
		QuestionRepo:   questionRepo,
		ReplyRepo:      replyRepo,
		AttachmentRepo: attachmentRepo,
		EvidenceRepo:   evidenceRepo,
	}
}

// treeBuilder 绑定到单个事务，seen 记录已访问的回复用于发现环
type treeBuilder struct {
	topics      *repository.TopicRepository
	questions   *repository.QuestionRepository
	replies     *repository.ReplyRepository
	attachments *repository.AttachmentRepository
	evidence    *repository.EvidenceRepository
	seen        map[string]bool
}

func (t *TreeAssembler) inTx(ctx context.Context, fn func(b *treeBuilder) error) error {
	return t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&treeBuilder{
			topics:      t.TopicRepo.WithTx(tx),
			questions:   t.QuestionRepo.WithTx(tx),
			replies:     t.ReplyRepo.WithTx(tx),
			attachments: t.AttachmentRepo.WithTx(tx),
			evidence:    t.EvidenceRepo.WithTx(tx),
			seen:        make(map[string]bool),
		})
	})
}

// AssembleQuestion 返回问题及完整回复树
func (t *TreeAssembler) AssembleQuestion(ctx context.Context, questionID string) (*model.QuestionView, error) {
	var view *model.QuestionView
	err := t.inTx(ctx, func(b *treeBuilder) error {
		q, err := b.questions.FindByID(ctx, questionID)
		if err != nil {
			return notFound(err, "question", questionID)
		}
		views, err := b.buildQuestions(ctx, []model.Question{*q})
		if err != nil {
			return err
		}
		view = views[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// AssembleTopic 话题下所有问题（按创建时间）及各自的回复树
func (t *TreeAssembler) AssembleTopic(ctx context.Context, topicID string) ([]*model.QuestionView, error) {
	var views []*model.QuestionView
	err := t.inTx(ctx, func(b *treeBuilder) error {
		exists, err := b.topics.Exists(ctx, topicID)
		if err != nil {
			return err
		}
		if !exists {
			return util.NotFoundf("topic %s", topicID)
		}
		questions, err := b.questions.FindByTopicID(ctx, topicID)
		if err != nil {
			return err
		}
		views, err = b.buildQuestions(ctx, questions)
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// AssembleDirectReplies 问题的直接回复，每个都带完整子树
func (t *TreeAssembler) AssembleDirectReplies(ctx context.Context, questionID string) ([]*model.ReplyView, error) {
	var roots []*model.ReplyView
	err := t.inTx(ctx, func(b *treeBuilder) error {
		exists, err := b.questions.Exists(ctx, questionID)
		if err != nil {
			return err
		}
		if !exists {
			return util.NotFoundf("question %s", questionID)
		}
		direct, err := b.replies.FindByQuestionIDs(ctx, []string{questionID})
		if err != nil {
			return err
		}
		roots = make([]*model.ReplyView, 0, len(direct))
		for i := range direct {
			v, err := b.directReply(&direct[i], questionID)
			if err != nil {
				return err
			}
			roots = append(roots, v)
		}
		return b.expand(ctx, roots)
	})
	if err != nil {
		return nil, err
	}
	return roots, nil
}

// AssembleReply 以某条回复为根的子树
func (t *TreeAssembler) AssembleReply(ctx context.Context, replyID string) (*model.ReplyView, error) {
	var root *model.ReplyView
	err := t.inTx(ctx, func(b *treeBuilder) error {
		r, err := b.replies.FindByID(ctx, replyID)
		if err != nil {
			return notFound(err, "reply", replyID)
		}
		if _, ok := r.Parent(); !ok {
			return util.Integrityf("reply %s must have exactly one parent", r.ID)
		}
		b.seen[r.ID] = true
		root = newReplyView(r)
		return b.expand(ctx, []*model.ReplyView{root})
	})
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (b *treeBuilder) buildQuestions(ctx context.Context, questions []model.Question) ([]*model.QuestionView, error) {
	views := make([]*model.QuestionView, 0, len(questions))
	if len(questions) == 0 {
		return views, nil
	}

	index := make(map[string]*model.QuestionView, len(questions))
	ids := make([]string, 0, len(questions))
	for i := range questions {
		v := newQuestionView(&questions[i])
		views = append(views, v)
		index[v.ID] = v
		ids = append(ids, v.ID)
	}

	attachments, err := b.attachments.FindByOwnerIDs(ctx, model.ParentQuestion, ids)
	if err != nil {
		return nil, err
	}
	for i := range attachments {
		if a := &attachments[i]; a.QuestionID != nil && index[*a.QuestionID] != nil {
			index[*a.QuestionID].Attachments = append(index[*a.QuestionID].Attachments, newAttachmentView(a))
		}
	}
	evidence, err := b.evidence.FindByOwnerIDs(ctx, model.ParentQuestion, ids)
	if err != nil {
		return nil, err
	}
	for i := range evidence {
		if e := &evidence[i]; e.QuestionID != nil && index[*e.QuestionID] != nil {
			index[*e.QuestionID].EvidenceURLs = append(index[*e.QuestionID].EvidenceURLs, newEvidenceView(e))
		}
	}

	direct, err := b.replies.FindByQuestionIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	roots := make([]*model.ReplyView, 0, len(direct))
	for i := range direct {
		r := &direct[i]
		parent := index[*r.QuestionID]
		v, err := b.directReply(r, parent.ID)
		if err != nil {
			return nil, err
		}
		parent.Replies = append(parent.Replies, v)
		roots = append(roots, v)
	}

	if err := b.expand(ctx, roots); err != nil {
		return nil, err
	}
	return views, nil
}

// directReply 校验按 question_id 取出的回复确实是问题的直接回复
func (b *treeBuilder) directReply(r *model.Reply, questionID string) (*model.ReplyView, error) {
	if r.ParentReplyID != nil {
		return nil, util.Integrityf("reply %s references both question %s and reply %s", r.ID, questionID, *r.ParentReplyID)
	}
	if r.Depth != 0 {
		return nil, util.Integrityf("direct reply %s has depth %d", r.ID, r.Depth)
	}
	if b.seen[r.ID] {
		return nil, util.Integrityf("reply %s reached twice", r.ID)
	}
	b.seen[r.ID] = true
	return newReplyView(r), nil
}

// expand 逐层展开：挂载当前层的附件和证据，再批量取下一层子回复
func (b *treeBuilder) expand(ctx context.Context, level []*model.ReplyView) error {
	for len(level) > 0 {
		index := make(map[string]*model.ReplyView, len(level))
		ids := make([]string, 0, len(level))
		for _, v := range level {
			index[v.ID] = v
			ids = append(ids, v.ID)
		}

		if err := b.attachOwned(ctx, ids, index); err != nil {
			return err
		}

		children, err := b.replies.FindByParentIDs(ctx, ids)
		if err != nil {
			return err
		}

		next := make([]*model.ReplyView, 0, len(children))
		for i := range children {
			c := &children[i]
			if c.QuestionID != nil {
				return util.Integrityf("reply %s references both question %s and reply %s", c.ID, *c.QuestionID, *c.ParentReplyID)
			}
			parent := index[*c.ParentReplyID]
			if parent == nil {
				return util.Integrityf("reply %s fetched for unknown parent %s", c.ID, *c.ParentReplyID)
			}
			if b.seen[c.ID] {
				return util.Integrityf("reply %s reached twice", c.ID)
			}
			if c.Depth != parent.Depth+1 {
				return util.Integrityf("reply %s has depth %d under parent depth %d", c.ID, c.Depth, parent.Depth)
			}
			b.seen[c.ID] = true

			v := newReplyView(c)
			parent.Replies = append(parent.Replies, v)
			next = append(next, v)
		}
		level = next
	}
	return nil
}

func (b *treeBuilder) attachOwned(ctx context.Context, ids []string, index map[string]*model.ReplyView) error {
	attachments, err := b.attachments.FindByOwnerIDs(ctx, model.ParentReply, ids)
	if err != nil {
		return err
	}
	for i := range attachments {
		a := &attachments[i]
		if owner := index[*a.ReplyID]; owner != nil {
			owner.Attachments = append(owner.Attachments, newAttachmentView(a))
		}
	}

	evidence, err := b.evidence.FindByOwnerIDs(ctx, model.ParentReply, ids)
	if err != nil {
		return err
	}
	for i := range evidence {
		e := &evidence[i]
		if owner := index[*e.ReplyID]; owner != nil {
			owner.EvidenceURLs = append(owner.EvidenceURLs, newEvidenceView(e))
		}
	}
	return nil
}

func newQuestionView(q *model.Question) *model.QuestionView {
	return &model.QuestionView{
		ID:            q.ID,
		DebateTopicID: q.DebateTopicID,
		Text:          q.Text,
		Tag:           q.Tag,
		Side:          q.Side,
		Author:        q.Author,
		VotesUp:       q.VotesUp,
		VotesDown:     q.VotesDown,
		UniqueID:      q.UniqueID,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
		Replies:       []*model.ReplyView{},
		Attachments:   []model.AttachmentView{},
		EvidenceURLs:  []model.EvidenceView{},
	}
}

func newReplyView(r *model.Reply) *model.ReplyView {
	return &model.ReplyView{
		ID:            r.ID,
		QuestionID:    r.QuestionID,
		ParentReplyID: r.ParentReplyID,
		Text:          r.Text,
		Side:          r.Side,
		Author:        r.Author,
		VotesUp:       r.VotesUp,
		VotesDown:     r.VotesDown,
		UniqueID:      r.UniqueID,
		Depth:         r.Depth,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Replies:       []*model.ReplyView{},
		Attachments:   []model.AttachmentView{},
		EvidenceURLs:  []model.EvidenceView{},
	}
}

func newAttachmentView(a *model.Attachment) model.AttachmentView {
	return model.AttachmentView{
		ID:              a.ID,
		FileName:        a.FileName,
		FileSize:        a.FileSize,
		FormattedSize:   util.FormatFileSize(a.FileSize),
		FileType:        a.FileType,
		StorageURL:      a.StorageURL,
		StorageProvider: a.StorageProvider,
		UploadedBy:      a.UploadedBy,
		DisplayOrder:    a.DisplayOrder,
		CreatedAt:       a.CreatedAt,
	}
}

func newEvidenceView(e *model.EvidenceURL) model.EvidenceView {
	return model.EvidenceView{
		ID:           e.ID,
		URL:          e.URL,
		Title:        e.Title,
		DisplayOrder: e.DisplayOrder,
		CreatedAt:    e.CreatedAt,
	}
}
