// models/notification.go
package models

import "time"

const NotificationTable = "carnival_notifications"
const PushSubscriptionTable = "carnival_push_subscriptions"

// 通知类型，前端按 type 决定渲染和可点动作
const (
	NotifyInvitationReceived  = "invitation_received"
	NotifyInvitationAccepted  = "invitation_accepted"
	NotifyInvitationDeclined  = "invitation_declined"
	NotifyInvitationWithdrawn = "invitation_withdrawn"
)

// Notification 站内通知。核心流程只插入，is_read 归通知列表页管
type Notification struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  string `gorm:"type:uuid;index;not null" json:"userId"`
	Type    string `gorm:"size:40;not null" json:"type"`
	Title   string `gorm:"size:200;not null" json:"title"`
	Message string `gorm:"size:500" json:"message"`
	// Data 自由 JSON，放 invitationId / teamId 之类的关联 id
	Data   string `gorm:"type:text" json:"data,omitempty"`
	IsRead bool   `gorm:"not null;default:false;index" json:"isRead"`

	CreatedAt time.Time `json:"createdAt"`
}

// PushSubscription 浏览器 Web Push 订阅（endpoint 唯一）
type PushSubscription struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   string `gorm:"type:uuid;index;not null" json:"userId"`
	Endpoint string `gorm:"size:500;uniqueIndex;not null" json:"endpoint"`
	P256dh   string `gorm:"size:255;not null" json:"p256dh"`
	Auth     string `gorm:"size:255;not null" json:"auth"`

	CreatedAt time.Time `json:"createdAt"`
}

func (Notification) TableName() string     { return NotificationTable }
func (PushSubscription) TableName() string { return PushSubscriptionTable }
