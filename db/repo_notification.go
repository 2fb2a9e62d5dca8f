package db

import (
	"context"
	"errors"

	"Gin_postgres_redis_carnival_tool/models"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// Notifications。核心流程只插入；is_read 归通知列表接口管

func (r *Repo) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Create(n).Error
}

func (r *Repo) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	q := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var ns []models.Notification
	err := q.Find(&ns).Error
	return ns, err
}

var ErrNotificationNotFound = errors.New("notification not found")

func (r *Repo) MarkNotificationRead(ctx context.Context, id, userID string) error {
	res := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *Repo) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *Repo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// Push subscriptions

// SavePushSubscription 同一 endpoint 重复订阅走 upsert，换浏览器换 key 也不炸
func (r *Repo) SavePushSubscription(ctx context.Context, s *models.PushSubscription) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
	}).Create(s).Error
}

func (r *Repo) DeletePushSubscription(ctx context.Context, userID, endpoint string) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&models.PushSubscription{}).Error
}

func (r *Repo) ListPushSubscriptions(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&subs).Error
	return subs, err
}
