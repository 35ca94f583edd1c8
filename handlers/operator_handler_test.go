package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"freight_quotation/database"
	"freight_quotation/models"
)

// 链接测试DB（内存SQLite）并注入全局连接
func testDb(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 内存库每个连接各自独立，限制为单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Route{},
		&models.RouteAgent{},
		&models.GoodsDetail{},
		&models.GoodsTotal{},
		&models.FeeItem{},
		&models.FeeTotal{},
		&models.ForexRate{},
		&models.Summary{},
		&models.Operator{},
	)
	require.NoError(t, err)

	database.SetDB(db)
	return db
}

// postJSON 向测试应用发一个JSON请求
func postJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}) *http.Response {
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func operatorTestApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/operators", CreateOperator)
	return app
}

// 创建操作员：密码必须加密落库，能用于登录校验
func TestCreateOperator(t *testing.T) {
	db := testDb(t)
	app := operatorTestApp()

	resp := postJSON(t, app, "POST", "/api/operators", fiber.Map{
		"username": "zhangsan",
		"name":     "张三",
		"password": "s3cret-pass",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var operator models.Operator
	require.NoError(t, db.Where("username = ?", "zhangsan").First(&operator).Error)
	assert.Equal(t, "张三", operator.Name)
	assert.Equal(t, "active", operator.Status)
	assert.NotEqual(t, "s3cret-pass", operator.Password, "密码不得明文落库")
	assert.True(t, operator.CheckPassword("s3cret-pass"))
}

func TestCreateOperatorDuplicateUsername(t *testing.T) {
	db := testDb(t)
	app := operatorTestApp()

	existing := models.Operator{Username: "lisi", Name: "李四", Status: "active"}
	require.NoError(t, existing.SetPassword("pass-1"))
	require.NoError(t, db.Create(&existing).Error)

	resp := postJSON(t, app, "POST", "/api/operators", fiber.Map{
		"username": "lisi",
		"name":     "李四二号",
		"password": "pass-2",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateOperatorMissingFields(t *testing.T) {
	testDb(t)
	app := operatorTestApp()

	resp := postJSON(t, app, "POST", "/api/operators", fiber.Map{
		"username": "wangwu",
		"name":     "王五",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "缺密码应拒绝")

	resp = postJSON(t, app, "POST", "/api/operators", fiber.Map{
		"name":     "王五",
		"password": "pass-3",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "缺用户名应拒绝")
}
