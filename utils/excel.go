package utils

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// GetCellStringValue 获取Excel单元格的字符串值，自动处理公式和普通单元格
func GetCellStringValue(f *excelize.File, sheet string, col string, row int) (string, error) {
	cell := col + strconv.Itoa(row)
	// 先判断是否为公式
	formula, err := f.GetCellFormula(sheet, cell)
	if err == nil && formula != "" {
		// 是公式，计算其值
		return f.CalcCellValue(sheet, cell)
	}
	// 否则直接取值
	val, err := f.GetCellValue(sheet, cell)
	return strings.TrimSpace(val), err
}

// GetCellDecimalValue 获取Excel单元格的decimal值，空单元格按0处理
func GetCellDecimalValue(f *excelize.File, sheet string, col string, row int) (decimal.Decimal, error) {
	valStr, err := GetCellStringValue(f, sheet, col, row)
	if err != nil {
		return decimal.Zero, err
	}
	if valStr == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(valStr)
}

// GetCellDecimalPtr 获取Excel单元格的decimal指针值，空单元格返回nil（表示未填写）
// 与GetCellDecimalValue的区别：空和0要区分的字段（如货物汇总行的金额）用这个
func GetCellDecimalPtr(f *excelize.File, sheet string, col string, row int) (*decimal.Decimal, error) {
	valStr, err := GetCellStringValue(f, sheet, col, row)
	if err != nil {
		return nil, err
	}
	if valStr == "" {
		return nil, nil
	}
	val, err := decimal.NewFromString(valStr)
	if err != nil {
		return nil, err
	}
	return &val, nil
}
