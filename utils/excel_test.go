package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// 构造一个带数据的内存工作簿
func testWorkbook(t *testing.T) *excelize.File {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "服务器"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "  带空格  "))
	require.NoError(t, f.SetCellValue("Sheet1", "C1", 12.5))
	require.NoError(t, f.SetCellFormula("Sheet1", "D1", "C1*2"))
	t.Cleanup(func() { f.Close() })
	return f
}

func TestGetCellStringValue(t *testing.T) {
	f := testWorkbook(t)

	val, err := GetCellStringValue(f, "Sheet1", "A", 1)
	require.NoError(t, err)
	assert.Equal(t, "服务器", val)

	// 前后空白被裁剪
	val, err = GetCellStringValue(f, "Sheet1", "B", 1)
	require.NoError(t, err)
	assert.Equal(t, "带空格", val)

	// 空单元格返回空串
	val, err = GetCellStringValue(f, "Sheet1", "Z", 1)
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestGetCellDecimalValue(t *testing.T) {
	f := testWorkbook(t)

	val, err := GetCellDecimalValue(f, "Sheet1", "C", 1)
	require.NoError(t, err)
	assert.Equal(t, "12.5", val.String())

	// 公式单元格取计算结果
	val, err = GetCellDecimalValue(f, "Sheet1", "D", 1)
	require.NoError(t, err)
	assert.Equal(t, "25", val.String())

	// 空单元格按0处理
	val, err = GetCellDecimalValue(f, "Sheet1", "Z", 1)
	require.NoError(t, err)
	assert.True(t, val.IsZero())

	// 非数字报错
	_, err = GetCellDecimalValue(f, "Sheet1", "A", 1)
	assert.Error(t, err)
}

func TestGetCellDecimalPtr(t *testing.T) {
	f := testWorkbook(t)

	// 空单元格返回nil，区分未填写和0
	val, err := GetCellDecimalPtr(f, "Sheet1", "Z", 1)
	require.NoError(t, err)
	assert.Nil(t, val)

	val, err = GetCellDecimalPtr(f, "Sheet1", "C", 1)
	require.NoError(t, err)
	require.NotNil(t, val)
	assert.Equal(t, "12.5", val.String())
}
