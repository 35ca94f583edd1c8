package main

import (
	"freight_quotation/config"
)

// 程序入口：初始化数据库与迁移，创建Fiber应用并启动服务器
func main() {
	config.InitApp()
	app := config.SetupApp()
	config.StartServer(app)
}
