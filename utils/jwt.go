package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
)

// 从环境变量获取JWT密钥，如果未设置则使用随机生成的密钥
// 在生产环境中，应确保设置了环境变量JWT_SECRET
var jwtSecret = getJWTSecret()

// getJWTSecret 从环境变量获取JWT密钥
// 如果环境变量未设置，则生成随机密钥（仅用于开发环境）
func getJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// 检查当前环境
		env := os.Getenv("ENV")
		if env == "production" {
			log.Fatal("在生产环境中必须设置JWT_SECRET环境变量")
		}

		// 在开发环境中，生成随机密钥
		log.Warn("JWT_SECRET环境变量未设置，将使用随机生成的密钥（仅用于开发环境）")

		// 生成32字节的随机密钥
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err != nil {
			log.Errorf("生成随机密钥失败: %v，将使用备用密钥", err)
			return []byte("freight_quotation_jwt_secret_for_development_only_do_not_use_in_production")
		}

		// 将随机字节编码为base64字符串
		secret = base64.StdEncoding.EncodeToString(randomKey)
	}

	// 确保密钥长度足够
	if len(secret) < 16 {
		log.Warn("JWT密钥长度不足，建议使用至少32字符的密钥")
	}

	return []byte(secret)
}

// OperatorClaims 定义JWT令牌的声明结构
// 包含操作员的身份信息和标准JWT声明
type OperatorClaims struct {
	OperatorID           uint   `json:"operator_id"` // 操作员ID，用于身份识别
	Username             string `json:"username"`    // 操作员用户名，用于日志和审计
	jwt.RegisteredClaims        // 嵌入标准JWT声明（如过期时间、签发时间等）
}

// GenerateToken 为操作员签发JWT令牌，有效期24小时
func GenerateToken(operatorID uint, username string) (string, error) {
	claims := OperatorClaims{
		OperatorID: operatorID,
		Username:   username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken 解析并校验JWT令牌，返回其中的操作员声明
func ParseToken(tokenString string) (*OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 校验签名算法，防止算法替换攻击
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("非预期的签名算法")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*OperatorClaims)
	if !ok || !token.Valid {
		return nil, errors.New("无效的认证令牌")
	}
	return claims, nil
}
