// models/invitation.go
package models

import "time"

const InvitationTable = "carnival_team_invitations"

// 邀请状态。pending 是唯一可以离开的状态，其余都是终态
const (
	InvitationPending   = "pending"
	InvitationAccepted  = "accepted"
	InvitationDeclined  = "declined"
	InvitationWithdrawn = "withdrawn"
)

// InviteTTL 固定 7 天有效期
const InviteTTL = 7 * 24 * time.Hour

type TeamInvitation struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	TeamID  string `gorm:"type:uuid;index;not null" json:"teamId"`
	EventID string `gorm:"type:uuid;index;not null" json:"eventId"`

	InviterID    string `gorm:"type:uuid;not null" json:"inviterId"`
	InviteeEmail string `gorm:"size:255;index;not null" json:"inviteeEmail"` // 小写
	// InviteeID 响应之前为空：邀请绑定的是邮箱，不是账号
	InviteeID *string `gorm:"type:uuid" json:"inviteeId,omitempty"`

	Status      string     `gorm:"size:20;not null;default:'pending'" json:"status"`
	InvitedAt   time.Time  `gorm:"not null" json:"invitedAt"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	ExpiresAt   time.Time  `gorm:"index;not null" json:"expiresAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (TeamInvitation) TableName() string { return InvitationTable }

// Expired 过期只是读取/响应时的判断，不是状态迁移
func (i *TeamInvitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
