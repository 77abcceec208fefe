// Package random 生成验证码等随机串
package random

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const digits = "0123456789"

// GetCode 生成 length 位数字验证码，允许前导 0
// crypto/rand 读取失败的位置填 0
func GetCode(length int) string {
	if length <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(length)
	limit := big.NewInt(int64(len(digits)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteByte(digits[n.Int64()])
	}
	return b.String()
}
