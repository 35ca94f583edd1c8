package handlers

import (
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"freight_quotation/database"
	"freight_quotation/models"
)

// OperatorRequest 操作员创建请求
type OperatorRequest struct {
	Username string `json:"username"` // 用户名，登录用
	Name     string `json:"name"`     // 姓名
	Password string `json:"password"` // 明文密码，落库前加密
}

// CreateOperator 创建新操作员
// 接收操作员的基本信息，密码加密后保存
func CreateOperator(c *fiber.Ctx) error {
	var req OperatorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "无效的请求参数",
		})
	}

	// 验证必填字段
	if req.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "用户名不能为空",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "姓名不能为空",
		})
	}
	if req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "密码不能为空",
		})
	}

	// 验证用户名是否已存在
	var existing models.Operator
	result := database.GetDB().Where("username = ?", req.Username).First(&existing)
	if result.Error == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "用户名已存在",
		})
	} else if result.Error != gorm.ErrRecordNotFound {
		log.Errorf("查询操作员失败: %v", result.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询操作员失败",
		})
	}

	operator := models.Operator{
		Username: req.Username,
		Name:     req.Name,
		Status:   "active",
	}

	// 设置加密密码
	if err := operator.SetPassword(req.Password); err != nil {
		log.Errorf("密码加密失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "密码加密失败",
		})
	}

	if err := database.GetDB().Create(&operator).Error; err != nil {
		log.Errorf("创建操作员失败: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "创建操作员失败",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "操作员创建成功",
		"data":    operator,
	})
}

// GetOperators 获取全部操作员
func GetOperators(c *fiber.Ctx) error {
	var operators []models.Operator
	if err := database.GetDB().Order("id asc").Find(&operators).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "查询操作员失败",
		})
	}
	return c.JSON(operators)
}
