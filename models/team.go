// models/team.go
package models

import "time"

const TeamTable = "carnival_teams"
const TeamMemberTable = "carnival_team_members"

const (
	RoleLeader = "leader"
	RoleMember = "member"
)

type Team struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	EventID string `gorm:"type:uuid;index;not null" json:"eventId"`
	Name    string `gorm:"size:120;not null" json:"name"`
	// LeaderID 建队后不变，队长不可转让
	LeaderID string `gorm:"type:uuid;not null" json:"leaderId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TeamMember 队员。EventID 冗余自 Team：
// 这样 "一个活动只能加入一支队伍" 就是 (event_id, user_id) 一个唯一索引的事
// （该索引在 db.Migrate 里用裸 SQL 建）
type TeamMember struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID  string `gorm:"type:uuid;not null;uniqueIndex:uniq_team_user" json:"teamId"`
	UserID  string `gorm:"type:uuid;not null;uniqueIndex:uniq_team_user" json:"userId"`
	EventID string `gorm:"type:uuid;index;not null" json:"eventId"`

	Role     string    `gorm:"size:20;not null;default:'member'" json:"role"`
	JoinedAt time.Time `gorm:"not null" json:"joinedAt"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Team) TableName() string       { return TeamTable }
func (TeamMember) TableName() string { return TeamMemberTable }
