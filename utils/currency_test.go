package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 测试币种别名归一化
func TestNormalizeCurrency(t *testing.T) {
	cases := map[string]string{
		"¥":    "CNY",
		"RMB":  "CNY",
		"rmb":  "CNY",
		"人民币":  "CNY",
		"美金":   "USD",
		"$":    "USD",
		"usd":  "USD",
		" USD ": "USD",
		"欧元":   "EUR",
		"港币":   "HKD",
	}
	for raw, want := range cases {
		assert.Equal(t, want, NormalizeCurrency(raw), "输入: %q", raw)
	}
}

// 空白输入视同本位币，返回空串
func TestNormalizeCurrencyEmpty(t *testing.T) {
	assert.Equal(t, "", NormalizeCurrency(""))
	assert.Equal(t, "", NormalizeCurrency("   "))
}

// 对照表没有的写法原样大写返回，由汇率解析兜底
func TestNormalizeCurrencyUnknownPassthrough(t *testing.T) {
	assert.Equal(t, "THB", NormalizeCurrency("thb"))
	assert.Equal(t, "KRW", NormalizeCurrency("KRW"))
}

// 测试线路编号格式：FR + 年月 + 6位随机码
func TestGenerateRouteNo(t *testing.T) {
	no := GenerateRouteNo()
	assert.True(t, strings.HasPrefix(no, "FR"))
	assert.Len(t, no, 15)
	assert.Equal(t, byte('-'), no[8])

	// 两次生成不应相同
	assert.NotEqual(t, no, GenerateRouteNo())
}
