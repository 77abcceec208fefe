package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"parkhya_chat_server/internal/dao/mysql/dbtest"
	"parkhya_chat_server/internal/dao/mysql/repository"
	myredis "parkhya_chat_server/internal/dao/redis"
	"parkhya_chat_server/internal/dto/request"
	"parkhya_chat_server/pkg/errorx"
	"parkhya_chat_server/pkg/util/jwt"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	jwt.Init("test-secret", 60)
}

type sentCode struct {
	phone string
	code  string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (f *fakeSender) SendResetCode(_ context.Context, phone, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentCode{phone: phone, code: code})
	return nil
}

type fixture struct {
	repos  *repository.Repositories
	cache  *myredis.MemoryCache
	sender *fakeSender
	svc    *authService
}

func newFixture(t *testing.T) *fixture {
	repos := dbtest.Open(t)
	cache := myredis.NewMemoryCache()
	sender := &fakeSender{}
	return &fixture{
		repos:  repos,
		cache:  cache,
		sender: sender,
		svc:    NewAuthService(repos, cache, sender, []string{"Root@Example.com"}),
	}
}

func strPtr(s string) *string { return &s }

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, request.RegisterRequest{
		FullName:     "Alice",
		Email:        "Alice@Example.com",
		Password:     "secret123",
		MobileNumber: strPtr("5550001"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.False(t, u.IsAdmin)

	_, err = f.svc.Register(ctx, request.RegisterRequest{Email: "alice@example.com", Password: "secret123"})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))
	_, err = f.svc.Register(ctx, request.RegisterRequest{Email: "other@example.com", Password: "secret123", MobileNumber: strPtr("5550001")})
	assert.Equal(t, errorx.CodeConflict, errorx.GetCode(err))

	login, err := f.svc.Login(ctx, request.LoginRequest{Email: "ALICE@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, login.User.ID)
	claims, err := jwt.ParseToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	_, err = f.svc.Login(ctx, request.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.Equal(t, errorx.CodeInvalidPassword, errorx.GetCode(err))
	_, err = f.svc.Login(ctx, request.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.Equal(t, errorx.CodeInvalidPassword, errorx.GetCode(err))
}

func TestRegisterGrantsConfiguredAdmins(t *testing.T) {
	f := newFixture(t)
	u, err := f.svc.Register(context.Background(), request.RegisterRequest{Email: "root@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
}

func TestSocialLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing, err := f.svc.Register(ctx, request.RegisterRequest{Email: "bob@example.com", Password: "secret123"})
	require.NoError(t, err)

	// 邮箱已注册：关联第三方 id 并补全头像
	got, err := f.svc.SocialLogin(ctx, request.SocialLoginRequest{
		Provider: "google",
		Profile:  request.SocialProfile{ID: "g-1", Email: "bob@example.com", Name: "Bob", Picture: "https://img.example.com/b.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, got.User.ID)
	require.NotNil(t, got.User.Avatar)
	assert.Equal(t, "https://img.example.com/b.png", *got.User.Avatar)

	// 再次登录按第三方 id 命中，即使邮箱变了
	again, err := f.svc.SocialLogin(ctx, request.SocialLoginRequest{
		Provider: "google",
		Profile:  request.SocialProfile{ID: "g-1", Email: "bob.new@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, again.User.ID)

	// 全新用户
	fresh, err := f.svc.SocialLogin(ctx, request.SocialLoginRequest{
		Provider: "github",
		Profile:  request.SocialProfile{ID: "42", Email: "carol@example.com", Name: "Carol"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, existing.ID, fresh.User.ID)
	assert.Equal(t, "Carol", fresh.User.FullName)
	assert.Nil(t, fresh.User.Avatar)
	assert.NotEmpty(t, fresh.Token)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, request.RegisterRequest{Email: "dan@example.com", Password: "secret123", MobileNumber: strPtr("5550002")})
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(ctx, "nobody@example.com"))
	assert.Empty(t, f.sender.sent)

	require.NoError(t, f.svc.ForgotPassword(ctx, "DAN@example.com"))
	require.Len(t, f.sender.sent, 1)
	sent := f.sender.sent[0]
	assert.Equal(t, "5550002", sent.phone)
	assert.Len(t, sent.code, 6)

	err = f.svc.ForgotPassword(ctx, "dan@example.com")
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err), "a live code blocks a second request")

	wrong := "000000"
	if sent.code == wrong {
		wrong = "111111"
	}
	err = f.svc.ResetPassword(ctx, request.ResetPasswordRequest{Email: "dan@example.com", Code: wrong, NewPassword: "brandnew"})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))

	require.NoError(t, f.svc.ResetPassword(ctx, request.ResetPasswordRequest{Email: "dan@example.com", Code: sent.code, NewPassword: "brandnew"}))

	_, err = f.svc.Login(ctx, request.LoginRequest{Email: "dan@example.com", Password: "brandnew"})
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, request.LoginRequest{Email: "dan@example.com", Password: "secret123"})
	assert.Error(t, err)

	// 验证码只能用一次
	err = f.svc.ResetPassword(ctx, request.ResetPasswordRequest{Email: "dan@example.com", Code: sent.code, NewPassword: "again123"})
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestForgotPasswordSendFailureReleasesCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, request.RegisterRequest{Email: "eve@example.com", Password: "secret123", MobileNumber: strPtr("5550003")})
	require.NoError(t, err)

	f.sender.err = errors.New("gateway down")
	err = f.svc.ForgotPassword(ctx, "eve@example.com")
	assert.Equal(t, errorx.CodeServerBusy, errorx.GetCode(err))

	f.sender.err = nil
	assert.NoError(t, f.svc.ForgotPassword(ctx, "eve@example.com"))
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, claims, err := jwt.GenerateAccessToken("u-1", "u1@example.com")
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, claims))

	revoked, err := f.cache.Get(ctx, myredis.RevokedTokenKey(claims.ID))
	require.NoError(t, err)
	assert.Equal(t, "u-1", revoked)

	expired := &jwt.Claims{UserID: "u-2", RegisteredClaims: gojwt.RegisteredClaims{
		ID:        "old",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	require.NoError(t, f.svc.Logout(ctx, expired))
	got, err := f.cache.Get(ctx, myredis.RevokedTokenKey("old"))
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Equal(t, errorx.CodeUnauthorized, errorx.GetCode(f.svc.Logout(ctx, nil)))
}
