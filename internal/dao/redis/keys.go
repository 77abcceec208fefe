package redis

// OnlineUsersKey 在线用户集合
const OnlineUsersKey = "online_users"

const (
	revokedTokenPrefix = "revoked_token:"
	resetCodePrefix    = "password_reset:"
)

// RevokedTokenKey 已注销 token 的 jti
func RevokedTokenKey(tokenID string) string {
	return revokedTokenPrefix + tokenID
}

// ResetCodeKey 找回密码验证码，按邮箱区分
func ResetCodeKey(email string) string {
	return resetCodePrefix + email
}
