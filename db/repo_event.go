package db

import (
	"context"
	"errors"
	"time"

	"Gin_postgres_redis_carnival_tool/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")
var ErrRegistrationClosed = errors.New("registration closed")
var ErrAlreadyRegistered = errors.New("already registered for this event")
var ErrEventFull = errors.New("event is full")

// Events

func (r *Repo) CreateEvent(ctx context.Context, ev *models.Event) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	return r.DB.WithContext(ctx).Create(ev).Error
}

func (r *Repo) ListEvents(ctx context.Context) ([]models.Event, error) {
	var evs []models.Event
	err := r.DB.WithContext(ctx).Order("starts_at ASC").Find(&evs).Error
	return evs, err
}

func (r *Repo) FindEventByID(ctx context.Context, id string) (*models.Event, error) {
	var ev models.Event
	if err := r.DB.WithContext(ctx).First(&ev, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &ev, nil
}

// 报名：容量检查 + 插入放一个事务里，报名表唯一索引兜底去重
func (r *Repo) RegisterForEvent(ctx context.Context, eventID, userID string) (*models.EventRegistration, error) {
	var reg *models.EventRegistration
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev models.Event
		if err := tx.First(&ev, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		if !ev.RegistrationOpen {
			return ErrRegistrationClosed
		}
		if ev.Capacity > 0 {
			var n int64
			if err := tx.Model(&models.EventRegistration{}).
				Where("event_id = ?", eventID).
				Count(&n).Error; err != nil {
				return err
			}
			if n >= int64(ev.Capacity) {
				return ErrEventFull
			}
		}

		rg := &models.EventRegistration{
			ID:           uuid.NewString(),
			EventID:      eventID,
			UserID:       userID,
			RegisteredAt: time.Now().UTC(),
		}
		if err := tx.Create(rg).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return err
		}
		reg = rg
		return nil
	})
	return reg, err
}

func (r *Repo) IsRegistered(ctx context.Context, eventID, userID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.EventRegistration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&n).Error
	return n > 0, err
}

func (r *Repo) ListMyRegistrations(ctx context.Context, userID string) ([]models.EventRegistration, error) {
	var regs []models.EventRegistration
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("registered_at DESC").
		Find(&regs).Error
	return regs, err
}
