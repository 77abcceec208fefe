package sms

import (
	"context"
	"os"
	"strings"

	"parkhya_chat_server/internal/config"
	"parkhya_chat_server/pkg/errorx"

	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	dysmsapi20170525 "github.com/alibabacloud-go/dysmsapi-20170525/v4/client"
	util "github.com/alibabacloud-go/tea-utils/v2/service"
	"github.com/alibabacloud-go/tea/tea"
	"go.uber.org/zap"
)

const (
	defaultSignName     = "阿里云短信测试"
	defaultTemplateCode = "SMS_154950909"
)

// mockSender 只写日志，本机开发和测试使用
type mockSender struct{}

func NewMockSender() Sender {
	return &mockSender{}
}

func (s *mockSender) SendResetCode(_ context.Context, phone, code string) error {
	zap.L().Info("【MockSMS】reset code", zap.String("phone", phone), zap.String("code", code))
	return nil
}

// aliyunSender 阿里云短信实现
type aliyunSender struct {
	client       *dysmsapi20170525.Client
	signName     string
	templateCode string
}

// Init 没有配置真实 AccessKey 时返回 mock 实现
func Init(cfg config.AuthCodeConfig) (Sender, error) {
	if shouldUseMock(cfg) {
		zap.L().Warn("SMS Service 使用本地 Mock 模式（只记录日志，不调用第三方短信）")
		return NewMockSender(), nil
	}

	conf := &openapi.Config{
		AccessKeyId:     tea.String(cfg.AccessKeyID),
		AccessKeySecret: tea.String(cfg.AccessKeySecret),
	}
	conf.Endpoint = tea.String("dysmsapi.aliyuncs.com")
	client, err := dysmsapi20170525.NewClient(conf)
	if err != nil {
		zap.L().Error("Aliyun SMS Client Init Failed", zap.Error(err))
		return nil, err
	}

	s := &aliyunSender{
		client:       client,
		signName:     cfg.SignName,
		templateCode: cfg.TemplateCode,
	}
	if s.signName == "" {
		s.signName = defaultSignName
	}
	if s.templateCode == "" {
		s.templateCode = defaultTemplateCode
	}
	return s, nil
}

func shouldUseMock(auth config.AuthCodeConfig) bool {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv("SMS_MODE")))
	if mode == "mock" || mode == "local" || mode == "test" {
		return true
	}
	// 配置文件默认是占位字符串
	ak := strings.ToLower(strings.TrimSpace(auth.AccessKeyID))
	ask := strings.ToLower(strings.TrimSpace(auth.AccessKeySecret))
	if ak == "" || ask == "" {
		return true
	}
	return strings.Contains(ak, "your accesskey") || strings.Contains(ask, "your accesskey")
}

func (s *aliyunSender) SendResetCode(_ context.Context, phone, code string) error {
	req := &dysmsapi20170525.SendSmsRequest{
		SignName:     tea.String(s.signName),
		TemplateCode: tea.String(s.templateCode),
		PhoneNumbers: tea.String(phone),
		// 对应模板中的变量 ${code}
		TemplateParam: tea.String(`{"code":"` + code + `"}`),
	}

	rsp, err := s.client.SendSmsWithOptions(req, &util.RuntimeOptions{})
	if err != nil {
		return errorx.Wrap(err, errorx.CodeServerBusy, "aliyun send sms")
	}
	zap.L().Info("短信发送接口响应", zap.String("response", tea.StringValue(util.ToJSONString(rsp))))

	// 调用成功也要看业务码
	if rsp.Body != nil && tea.StringValue(rsp.Body.Code) != "OK" {
		return errorx.Newf(errorx.CodeServerBusy, "aliyun send sms: %s %s",
			tea.StringValue(rsp.Body.Code), tea.StringValue(rsp.Body.Message))
	}
	return nil
}
