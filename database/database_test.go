package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"freight_quotation/models"
)

func testDb(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.Operator{}))
	return db
}

// 空库迁移后必须有一个可登录的操作员
func TestSeedDefaultOperator(t *testing.T) {
	SetDB(testDb(t))
	t.Setenv("OPERATOR_INIT_USERNAME", "boss")
	t.Setenv("OPERATOR_INIT_PASSWORD", "init-secret")

	seedDefaultOperator()

	var operator models.Operator
	require.NoError(t, GetDB().Where("username = ?", "boss").First(&operator).Error)
	assert.Equal(t, "active", operator.Status)
	assert.True(t, operator.CheckPassword("init-secret"))

	// 已有操作员时不再播种
	seedDefaultOperator()
	var count int64
	require.NoError(t, GetDB().Model(&models.Operator{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

// 环境变量未设置时用默认用户名
func TestSeedDefaultOperatorDefaults(t *testing.T) {
	SetDB(testDb(t))
	t.Setenv("OPERATOR_INIT_USERNAME", "")
	t.Setenv("OPERATOR_INIT_PASSWORD", "")

	seedDefaultOperator()

	var operator models.Operator
	require.NoError(t, GetDB().Where("username = ?", "admin").First(&operator).Error)
	assert.True(t, operator.CheckPassword("admin123"))
}
