package db

import (
	"context"
	"errors"
	"testing"

	"Gin_postgres_redis_carnival_tool/models"
)

func TestRegisterForEvent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	bob := seedUser(t, r, "bob@x.com")
	ev := seedEvent(t, r, "ctf")

	reg, err := r.RegisterForEvent(ctx, ev.ID, bob.ID)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.EventID != ev.ID || reg.UserID != bob.ID {
		t.Fatalf("registration row wrong: %+v", reg)
	}

	if _, err := r.RegisterForEvent(ctx, ev.ID, bob.ID); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("want ErrAlreadyRegistered, got %v", err)
	}
	if _, err := r.RegisterForEvent(ctx, "no-such-event", bob.ID); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("want ErrEventNotFound, got %v", err)
	}
}

func TestRegisterForEvent_ClosedAndFull(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	a := seedUser(t, r, "a@x.com")
	b := seedUser(t, r, "b@x.com")

	closed := seedEvent(t, r, "closed")
	r.DB.Model(&models.Event{}).Where("id = ?", closed.ID).Update("registration_open", false)
	if _, err := r.RegisterForEvent(ctx, closed.ID, a.ID); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("want ErrRegistrationClosed, got %v", err)
	}

	tiny := seedEvent(t, r, "tiny")
	r.DB.Model(&models.Event{}).Where("id = ?", tiny.ID).Update("capacity", 1)
	if _, err := r.RegisterForEvent(ctx, tiny.ID, a.ID); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := r.RegisterForEvent(ctx, tiny.ID, b.ID); !errors.Is(err, ErrEventFull) {
		t.Fatalf("want ErrEventFull, got %v", err)
	}
}
