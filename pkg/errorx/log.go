package errorx

import "go.uber.org/zap"

// Internal 业务错误原样返回；内部错误（数据库、缓存等）记录日志后替换为 ErrServerBusy
func Internal(err error, msg string, fields ...zap.Field) error {
	if err == nil {
		return nil
	}
	if !IsInternal(GetCode(err)) {
		return err
	}
	zap.L().Error(msg, append(fields, zap.Error(err))...)
	return ErrServerBusy
}
