// models/event.go
package models

import "time"

const EventTable = "carnival_events"
const RegistrationTable = "carnival_event_registrations"

type Event struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string    `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Venue       string    `gorm:"size:200" json:"venue"`
	StartsAt    time.Time `gorm:"index" json:"startsAt"`
	Capacity    int       `gorm:"not null;default:0" json:"capacity"` // 0 = 不限
	MinTeamSize int       `gorm:"not null;default:1" json:"minTeamSize"`
	MaxTeamSize int       `gorm:"not null;default:4" json:"maxTeamSize"`

	RegistrationOpen bool `gorm:"not null;default:true" json:"registrationOpen"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EventRegistration 个人报名记录，一个用户一个活动只有一条
type EventRegistration struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	EventID      string    `gorm:"type:uuid;not null;uniqueIndex:uniq_event_user" json:"eventId"`
	UserID       string    `gorm:"type:uuid;not null;uniqueIndex:uniq_event_user" json:"userId"`
	RegisteredAt time.Time `gorm:"not null" json:"registeredAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (Event) TableName() string             { return EventTable }
func (EventRegistration) TableName() string { return RegistrationTable }
