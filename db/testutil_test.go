package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"Gin_postgres_redis_carnival_tool/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 测试用内存 SQLite：迁移 SQL 写得两边通用（部分唯一索引 SQLite 也支持），
// 所以可以不起 Postgres 直接验约束
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepo(gdb)
}

func seedUser(t *testing.T, r *Repo, email string) *models.User {
	t.Helper()
	u := &models.User{
		ID:          uuid.NewString(),
		Email:       strings.ToLower(email),
		DisplayName: email,
	}
	if err := r.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func seedEvent(t *testing.T, r *Repo, slug string) *models.Event {
	t.Helper()
	ev := &models.Event{
		ID:               uuid.NewString(),
		Slug:             slug,
		Name:             slug,
		StartsAt:         time.Now().Add(72 * time.Hour),
		RegistrationOpen: true,
		MinTeamSize:      1,
		MaxTeamSize:      4,
	}
	if err := r.CreateEvent(context.Background(), ev); err != nil {
		t.Fatalf("seed event %s: %v", slug, err)
	}
	return ev
}

func seedTeam(t *testing.T, r *Repo, eventID, name, leaderID string) *models.Team {
	t.Helper()
	team, err := r.CreateTeam(context.Background(), eventID, name, leaderID)
	if err != nil {
		t.Fatalf("seed team %s: %v", name, err)
	}
	return team
}
