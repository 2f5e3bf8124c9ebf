package service

import (
	"debate_backend/internal/model"
	"debate_backend/internal/util"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// notFound 把 gorm 的记录不存在转换成统一的 ErrNotFound
func notFound(err error, what, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.NotFoundf("%s %s", what, id)
	}
	return err
}

// conflictOnDuplicate 唯一索引冲突转换成 ErrConflict（并发下预检查可能漏掉）
func conflictOnDuplicate(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.Conflictf(format, args...)
	}
	return err
}

// parentGone 检查与插入之间父记录被删除时，外键拒绝插入，按 ErrNotFound 返回
func parentGone(err error, what, id string) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return util.NotFoundf("%s %s", what, id)
	}
	return err
}

func authorOrDefault(author string) string {
	if a := strings.TrimSpace(author); a != "" {
		return a
	}
	return model.DefaultAuthor
}
