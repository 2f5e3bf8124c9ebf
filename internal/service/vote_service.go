package service

import (
	"context"
	"debate_backend/internal/model"
	"debate_backend/internal/repository"
	"debate_backend/internal/util"
	"debate_backend/pkg/logger"
	"debate_backend/pkg/monitoring"
	"strings"

	"go.uber.org/zap"
)

type VoteRequest struct {
	VoteType string `json:"voteType" binding:"required"`
}

// VoteService 对问题或回复的计数做原子自增；同一调用方可重复投票
type VoteService struct {
	QuestionRepo *repository.QuestionRepository
	ReplyRepo    *repository.ReplyRepository
	// Hub 可以为 nil（不推送）
	Hub *VoteHub
}

func NewVoteService(questionRepo *repository.QuestionRepository, replyRepo *repository.ReplyRepository, hub *VoteHub) *VoteService {
	return &VoteService{QuestionRepo: questionRepo, ReplyRepo: replyRepo, Hub: hub}
}

// ParseDirection 大小写不敏感，只接受 up / down
func ParseDirection(direction string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(direction))
	if d != util.VoteUp && d != util.VoteDown {
		return "", util.InvalidArgumentf("voteType must be %q or %q, got %q", util.VoteUp, util.VoteDown, direction)
	}
	return d, nil
}

func (s *VoteService) Vote(ctx context.Context, target model.ParentRef, direction string) (*model.VoteResult, error) {
	d, err := ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	var result *model.VoteResult
	switch target.Kind {
	case model.ParentQuestion:
		q, err := s.QuestionRepo.IncrementVote(ctx, target.ID, d)
		if err != nil {
			return nil, err
		}
		result = &model.VoteResult{ID: q.ID, VotesUp: q.VotesUp, VotesDown: q.VotesDown}
	case model.ParentReply:
		r, err := s.ReplyRepo.IncrementVote(ctx, target.ID, d)
		if err != nil {
			return nil, err
		}
		result = &model.VoteResult{ID: r.ID, VotesUp: r.VotesUp, VotesDown: r.VotesDown}
	default:
		return nil, util.InvalidArgumentf("unknown vote target %q", target.Kind)
	}

	monitoring.VoteCounter.WithLabelValues(string(target.Kind), d).Inc()
	s.Hub.PublishVote(ctx, model.VoteEvent{
		Target:    target.Kind,
		ID:        result.ID,
		VotesUp:   result.VotesUp,
		VotesDown: result.VotesDown,
	})
	logger.Log.Debug("Vote recorded",
		zap.String("target", string(target.Kind)),
		zap.String("id", target.ID),
		zap.String("direction", d))
	return result, nil
}
