package repository

import (
	"errors"
	"strings"

	"parkhya_chat_server/pkg/errorx"

	"gorm.io/gorm"
)

// wrapDBError 包装数据库错误
//   - ErrRecordNotFound -> CodeNotFound
//   - 唯一键冲突 -> CodeConflict
//   - 其他错误 -> CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errorx.Wrap(err, codeOf(err), msg)
}

// wrapDBErrorf 功能同 wrapDBError，支持格式化消息
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errorx.Wrapf(err, codeOf(err), format, args...)
}

func codeOf(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errorx.CodeNotFound
	case isDuplicateKey(err):
		return errorx.CodeConflict
	default:
		return errorx.CodeDBError
	}
}

// isDuplicateKey 驱动未开启错误翻译时按报文兜底识别
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// notFound 构造 RowsAffected 为 0 时的未找到错误
func notFound(format string, args ...any) error {
	return errorx.Wrapf(gorm.ErrRecordNotFound, errorx.CodeNotFound, format, args...)
}

// likeEscape 与 likePattern 配套使用
const likeEscape = " ESCAPE '!'"

var likeReplacer = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern 构造大小写不敏感的模糊匹配串，关键字中的 % 和 _ 按字面匹配
// 使用时条件需带上 likeEscape
func likePattern(keyword string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(strings.TrimSpace(keyword))) + "%"
}
