// app/bootstrap.go
package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"Gin_postgres_redis_carnival_tool/db"
	"Gin_postgres_redis_carnival_tool/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BootstrapFirstAdmin 首次部署没有管理员时，按 BOOTSTRAP_ADMIN_EMAIL 造一个，
// 随机密码打到日志，登录后自己改
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	fmt.Println("Checking if admin user exists...")
	if cfg.BootstrapEmail == "" {
		return
	}
	n, _ := repo.CountAdmins(ctx)
	if n > 0 {
		return // 已经有管理员，跳过
	}

	buf := make([]byte, 12)
	rand.Read(buf)
	password := hex.EncodeToString(buf)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("bootstrap admin failed: %v", err)
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(cfg.BootstrapEmail),
		DisplayName:  "Admin",
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Printf("bootstrap admin failed: %v", err)
		return
	}

	log.Printf("[BOOTSTRAP] No admin found, created admin account for %s", cfg.BootstrapEmail)
	log.Printf("[BOOTSTRAP] Temporary password: %s", password)
}
