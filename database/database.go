// Package database 提供数据库连接和管理功能
// 该包负责处理与数据库相关的所有操作，包括：
// - 数据库连接的建立和管理
// - 连接池的配置
// - 数据库迁移
// - 提供全局数据库实例
package database

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"freight_quotation/models"
)

// DB 全局数据库连接实例
// 这个变量在整个应用程序中被共享使用
// 通过 GetDB() 函数安全地访问
var DB *gorm.DB

// GetDB 返回数据库连接实例
// 这个函数是获取数据库连接的推荐方式
func GetDB() *gorm.DB {
	return DB
}

// SetDB 设置数据库连接
// 主要用于测试场景，允许注入模拟的数据库连接
// 参数:
//   - newDB: 新的数据库连接实例
func SetDB(newDB *gorm.DB) {
	DB = newDB
}

// Init 初始化数据库模块
// 该函数执行以下操作：
// 1. 加载环境变量
// 2. 建立数据库连接
// 3. 配置连接池
// 4. 设置字符集和排序规则
func Init() {
	// 加载.env文件中的环境变量
	// 文件不存在时仅告警，允许直接用系统环境变量运行
	if err := godotenv.Load(); err != nil {
		log.Warnf("加载.env文件失败: %v，使用系统环境变量", err)
	}

	// 初始化数据库连接
	initConnection()
}

// initConnection 初始化数据库连接
// 该函数负责：
// 1. 从环境变量获取数据库配置
// 2. 配置GORM日志
// 3. 建立数据库连接
// 4. 配置连接池参数
// 5. 设置数据库默认字符集
func initConnection() {
	// 从环境变量获取数据库配置
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	// 配置GORM日志
	// 设置日志级别、慢查询阈值等
	gormLogger := logger.New(
		log.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second, // 慢查询阈值
			LogLevel:                  logger.Warn, // 日志级别
			IgnoreRecordNotFoundError: true,        // 忽略记录未找到的错误
			Colorful:                  false,       // logrus接管输出，关闭彩色
		},
	)

	// 先尝试连接MySQL服务器（不指定数据库）
	// 这样可以在数据库不存在时创建它
	dsnWithoutDB := fmt.Sprintf("%s:%s@tcp(%s:%s)/?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port)

	tempDB, err := gorm.Open(mysql.Open(dsnWithoutDB), &gorm.Config{})
	if err != nil {
		log.Fatalf("连接MySQL服务器失败: %v", err)
	}

	// 创建数据库（如果不存在）
	// 使用utf8mb4字符集和unicode_ci排序规则
	createDBSQL := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", dbname)
	if err := tempDB.Exec(createDBSQL).Error; err != nil {
		log.Fatalf("创建数据库失败: %v", err)
	}

	// 构建完整的数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&collation=utf8mb4_unicode_ci",
		user, password, host, port, dbname)

	// 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatalf("无法连接到数据库: %v", err)
	}

	// 获取底层的sqlDB以配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("无法获取底层数据库连接: %v", err)
	}

	// 设置连接池参数
	// 这些参数需要根据实际负载情况调整
	sqlDB.SetMaxOpenConns(25)                  // 最大打开连接数
	sqlDB.SetMaxIdleConns(10)                  // 最大空闲连接数
	sqlDB.SetConnMaxLifetime(time.Hour)        // 连接最大生存时间
	sqlDB.SetConnMaxIdleTime(30 * time.Minute) // 空闲连接最大生存时间

	// 设置数据库默认字符集和排序规则
	db.Exec("SET NAMES utf8mb4 COLLATE utf8mb4_unicode_ci")
	db.Exec("SET CHARACTER SET utf8mb4")
	db.Set("gorm:table_options", "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci")

	DB = db
	log.Infof("数据库已成功连接到 %s:%s/%s", host, port, dbname)
}

// Migrate 执行数据库迁移
// 该函数使用GORM的AutoMigrate功能自动创建或更新数据库表
// 它会：
// 1. 创建不存在的表
// 2. 添加缺少的字段
// 3. 更新字段类型
// 4. 添加缺少的索引和外键级联约束
//
// 外键按"线路→代理段/货物行、代理段→费用行/汇总"配置级联删除，
// 删除一条线路会连带删掉它名下的全部从属数据
func Migrate() {
	log.Info("开始数据库迁移...")

	// 配置GORM自动迁移选项
	db := DB.Set("gorm:table_options", "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci")

	// 执行自动迁移
	// 需要迁移的模型按照依赖关系排序
	err := db.AutoMigrate(
		// 线路及所属数据
		&models.Route{},
		&models.RouteAgent{},
		&models.GoodsDetail{},
		&models.GoodsTotal{},
		// 费用及汇总
		&models.FeeItem{},
		&models.FeeTotal{},
		&models.Summary{},
		// 基础数据
		&models.ForexRate{},
		&models.Operator{},
	)

	if err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 首次部署时播种初始操作员，否则所有受保护接口都无法登录使用
	seedDefaultOperator()

	log.Info("数据库迁移成功")
}

// seedDefaultOperator 播种初始操作员
// 表里已有操作员时跳过；用户名和初始密码从环境变量读取，
// 密码未设置时使用默认值并告警
func seedDefaultOperator() {
	var count int64
	if err := DB.Model(&models.Operator{}).Count(&count).Error; err != nil {
		log.Fatalf("查询操作员数量失败: %v", err)
	}
	if count > 0 {
		return
	}

	username := os.Getenv("OPERATOR_INIT_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("OPERATOR_INIT_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Warn("未设置OPERATOR_INIT_PASSWORD，初始操作员使用默认密码")
	}

	operator := models.Operator{
		Username: username,
		Name:     "系统管理员",
		Status:   "active",
	}
	if err := operator.SetPassword(password); err != nil {
		log.Fatalf("初始操作员密码加密失败: %v", err)
	}
	if err := DB.Create(&operator).Error; err != nil {
		log.Fatalf("创建初始操作员失败: %v", err)
	}
	log.Infof("已创建初始操作员 %s", username)
}
