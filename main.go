package main

import (
	"barber_pos/config"
)

// main 应用程序入口
// 依次完成初始化（数据库连接和迁移）、构建Fiber应用、启动HTTP服务器
func main() {
	// 初始化应用程序（数据库连接、迁移等）
	config.InitApp()

	// 创建并配置Fiber应用实例
	app := config.SetupApp()

	// 启动服务器并处理优雅关闭
	config.StartServer(app)
}
