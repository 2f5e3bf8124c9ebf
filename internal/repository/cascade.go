package repository

import (
	"debate_backend/internal/model"
	"debate_backend/internal/util"

	"gorm.io/gorm"
)

// IN 查询单批最大参数个数
const inBatchSize = 500

func chunkIDs(ids []string) [][]string {
	var out [][]string
	for len(ids) > inBatchSize {
		out = append(out, ids[:inBatchSize])
		ids = ids[inBatchSize:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}

func pluckIDs(tx *gorm.DB, m interface{}, column string, ids []string) ([]string, error) {
	var out []string
	for _, batch := range chunkIDs(ids) {
		var part []string
		if err := tx.Model(m).Where(column+" IN ?", batch).Pluck("id", &part).Error; err != nil {
			return nil, err
		}
		out = append(out, part...)
	}
	return out, nil
}

// collectReplySubtree 从 roots 开始逐层展开所有子回复，返回包含 roots 的全部 id
func collectReplySubtree(tx *gorm.DB, roots []string) ([]string, error) {
	seen := make(map[string]bool, len(roots))
	all := make([]string, 0, len(roots))
	for _, id := range roots {
		if !seen[id] {
			seen[id] = true
			all = append(all, id)
		}
	}

	level := all
	for len(level) > 0 {
		children, err := pluckIDs(tx, &model.Reply{}, "parent_reply_id", level)
		if err != nil {
			return nil, err
		}
		next := make([]string, 0, len(children))
		for _, id := range children {
			if seen[id] {
				return nil, util.Integrityf("reply %s reached twice while collecting subtree", id)
			}
			seen[id] = true
			next = append(next, id)
		}
		all = append(all, next...)
		level = next
	}
	return all, nil
}

// purgeOwned 删除挂在 column IN ids 上的附件和证据链接，返回被删附件的存储 key
func purgeOwned(tx *gorm.DB, column string, ids []string) ([]string, error) {
	var keys []string
	for _, batch := range chunkIDs(ids) {
		var part []string
		if err := tx.Model(&model.Attachment{}).Where(column+" IN ?", batch).Pluck("storage_key", &part).Error; err != nil {
			return nil, err
		}
		keys = append(keys, part...)

		if err := tx.Where(column+" IN ?", batch).Delete(&model.Attachment{}).Error; err != nil {
			return nil, err
		}
		if err := tx.Where(column+" IN ?", batch).Delete(&model.EvidenceURL{}).Error; err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// purgeReplies 删除 roots 及其所有后代回复和它们的附件/证据
func purgeReplies(tx *gorm.DB, roots []string) ([]string, error) {
	if len(roots) == 0 {
		return nil, nil
	}
	all, err := collectReplySubtree(tx, roots)
	if err != nil {
		return nil, err
	}
	keys, err := purgeOwned(tx, "reply_id", all)
	if err != nil {
		return nil, err
	}
	for _, batch := range chunkIDs(all) {
		if err := tx.Where("id IN ?", batch).Delete(&model.Reply{}).Error; err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// purgeQuestions 删除问题及其回复树、附件、证据
func purgeQuestions(tx *gorm.DB, questionIDs []string) ([]string, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	direct, err := pluckIDs(tx, &model.Reply{}, "question_id", questionIDs)
	if err != nil {
		return nil, err
	}
	keys, err := purgeReplies(tx, direct)
	if err != nil {
		return nil, err
	}
	owned, err := purgeOwned(tx, "question_id", questionIDs)
	if err != nil {
		return nil, err
	}
	keys = append(keys, owned...)
	for _, batch := range chunkIDs(questionIDs) {
		if err := tx.Where("id IN ?", batch).Delete(&model.Question{}).Error; err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// voteColumn 只允许两个计数列，防止拼接任意列名
func voteColumn(direction string) (string, bool) {
	switch direction {
	case util.VoteUp:
		return "votes_up", true
	case util.VoteDown:
		return "votes_down", true
	}
	return "", false
}
