// Package sms 负责投递找回密码验证码
package sms

import "context"

// Sender 短信发送接口
// 验证码的生成、有效期和频率限制由调用方负责
type Sender interface {
	SendResetCode(ctx context.Context, phone, code string) error
}

var (
	_ Sender = (*aliyunSender)(nil)
	_ Sender = (*mockSender)(nil)
)
