package utils

import "strings"

// currencyAlias 币种别名对照表
// 报价单上的币种写法五花八门（符号、中文名、简称），导入时统一归一化为标准代码
var currencyAlias = map[string]string{
	"¥":   "CNY",
	"RMB": "CNY",
	"CNY": "CNY",
	"人民币": "CNY",
	"USD": "USD",
	"美金":  "USD",
	"美元":  "USD",
	"$":   "USD",
	"EUR": "EUR",
	"€":   "EUR",
	"欧元":  "EUR",
	"GBP": "GBP",
	"£":   "GBP",
	"英镑":  "GBP",
	"JPY": "JPY",
	"日元":  "JPY",
	"HKD": "HKD",
	"港币":  "HKD",
	"SGD": "SGD",
	"新币":  "SGD",
	"MYR": "MYR",
	"AUD": "AUD",
	"CAD": "CAD",
}

// NormalizeCurrency 将币种写法归一化为标准代码
// 空白输入返回空串（视同本位币）；对照表没有的写法原样返回（大写），
// 由汇率解析按"未知币种按1处理"的规则兜底
func NormalizeCurrency(raw string) string {
	code := strings.TrimSpace(raw)
	if code == "" {
		return ""
	}
	// 对照表的键全是大写代码或符号/中文，大写后查一次即可覆盖全部别名
	if std, ok := currencyAlias[strings.ToUpper(code)]; ok {
		return std
	}
	return strings.ToUpper(code)
}
