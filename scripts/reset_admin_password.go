// 手动重置管理员密码脚本
//
// 管理员账号只在首次启动时按配置创建，之后修改 admin.password 不会生效。
// 忘记密码或需要轮换时使用此脚本。
//
// 用法: go run scripts/reset_admin_password.go -username admin -password 'NewPassw0rd!'

package main

import (
	"context"
	"debate_backend/internal/config"
	"debate_backend/internal/repository"
	"debate_backend/internal/service"
	"debate_backend/pkg/database"
	"debate_backend/pkg/logger"
	"flag"
	"log"
	"time"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件所在目录")
	username := flag.String("username", "", "管理员用户名，默认使用配置中的 admin.username")
	password := flag.String("password", "", "新密码（至少8位）")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	name := *username
	if name == "" {
		name = cfg.Admin.Username
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	auth := service.NewAuthService(repository.NewAdminUserRepository(db), cfg)
	if err := auth.ResetPassword(ctx, name, *password); err != nil {
		log.Fatalf("重置失败: %v", err)
	}
	log.Printf("管理员 %s 的密码已重置", name)
}
