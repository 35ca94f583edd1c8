package utils

import (
	"crypto/rand"
	"fmt"
	mathrand "math/rand"
	"time"
)

// 字符集常量
const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomCode 生成指定长度的随机字符码
func GenerateRandomCode(length int) string {
	code := make([]byte, length)

	// 使用安全的随机数生成
	_, err := rand.Read(code)
	if err != nil {
		// 如果安全随机数生成失败，回退到不安全的方法
		// 创建一个新的随机数生成器实例，而不是使用全局的Seed
		r := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
		for i := range code {
			code[i] = charset[r.Intn(len(charset))]
		}
		return string(code)
	}

	// 将随机字节映射到字符集
	for i := range code {
		code[i] = charset[int(code[i])%len(charset)]
	}

	return string(code)
}

// GenerateRouteNo 生成线路业务编号
// 格式：FR + 年月 + 6位随机码，如 FR202608-X7K2M9
func GenerateRouteNo() string {
	return fmt.Sprintf("FR%s-%s", time.Now().Format("200601"), GenerateRandomCode(6))
}
