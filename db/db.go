package db

import (
	"Gin_postgres_redis_carnival_tool/models"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	// TranslateError: 唯一索引冲突统一转成 gorm.ErrDuplicatedKey，repo 层靠它判重
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	err = Migrate(DB)
	if err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.EventRegistration{},
		&models.Team{},
		&models.TeamMember{},
		&models.TeamInvitation{},
		&models.Notification{},
		&models.PushSubscription{},
	); err != nil {
		return err
	}

	// 同一 (team, email) 最多一条 pending 邀请 —— 约束放在库里，
	// 并发下先查后插的窗口就堵死了
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_pending
	  ON %s (team_id, invitee_email)
	  WHERE status = 'pending';
	`, models.InvitationTable, models.InvitationTable)).Error; err != nil {
		return err
	}

	// 一个活动一个人只能在一支队伍里
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_per_event
	  ON %s (event_id, user_id);
	`, models.TeamMemberTable, models.TeamMemberTable)).Error; err != nil {
		return err
	}

	// 待处理邀请列表查得最多
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_pending_by_email
	  ON %s (invitee_email, expires_at DESC)
	  WHERE status = 'pending';
	`, models.InvitationTable, models.InvitationTable)).Error; err != nil {
		return err
	}

	return nil
}
