package db

import (
	"context"
	"errors"
	"testing"

	"Gin_postgres_redis_carnival_tool/models"
)

func TestCreateTeam_LeaderMembership(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	leader := seedUser(t, r, "leader@x.com")
	ev := seedEvent(t, r, "ctf")

	team, err := r.CreateTeam(ctx, ev.ID, "gophers", leader.ID)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if team.LeaderID != leader.ID {
		t.Fatalf("leader_id = %q", team.LeaderID)
	}

	ms, err := r.ListTeamMembers(ctx, team.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(ms) != 1 || ms[0].Role != models.RoleLeader || ms[0].UserID != leader.ID {
		t.Fatalf("leader membership row wrong: %+v", ms)
	}
}

// 队长在同一活动建第二支队伍 → (event_id, user_id) 唯一索引挡下
func TestCreateTeam_OnePerEvent(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	leader := seedUser(t, r, "leader@x.com")
	ev := seedEvent(t, r, "ctf")

	if _, err := r.CreateTeam(ctx, ev.ID, "gophers", leader.ID); err != nil {
		t.Fatalf("first team: %v", err)
	}
	if _, err := r.CreateTeam(ctx, ev.ID, "gophers2", leader.ID); !errors.Is(err, ErrAlreadyOnAnotherTeam) {
		t.Fatalf("want ErrAlreadyOnAnotherTeam, got %v", err)
	}

	// 不同活动可以再当队长
	ev2 := seedEvent(t, r, "hackathon")
	if _, err := r.CreateTeam(ctx, ev2.ID, "gophers", leader.ID); err != nil {
		t.Fatalf("team for other event: %v", err)
	}
}

func TestCreateTeam_EventNotFound(t *testing.T) {
	r := newTestRepo(t)
	leader := seedUser(t, r, "leader@x.com")
	if _, err := r.CreateTeam(context.Background(), "no-such-event", "gophers", leader.ID); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("want ErrEventNotFound, got %v", err)
	}
}

func TestFindTeamForUser(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	leader := seedUser(t, r, "leader@x.com")
	bob := seedUser(t, r, "bob@x.com")
	ev := seedEvent(t, r, "ctf")
	team := seedTeam(t, r, ev.ID, "gophers", leader.ID)

	got, err := r.FindTeamForUser(ctx, ev.ID, leader.ID)
	if err != nil || got.ID != team.ID {
		t.Fatalf("leader lookup: %v %v", got, err)
	}
	if _, err := r.FindTeamForUser(ctx, ev.ID, bob.ID); !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("want ErrTeamNotFound, got %v", err)
	}

	inv, _ := r.CreateInvitation(ctx, team.ID, bob.Email, leader.ID)
	if _, err := r.RespondToInvitation(ctx, inv.ID, models.InvitationAccepted, bob.ID, bob.Email); err != nil {
		t.Fatalf("accept: %v", err)
	}
	got, err = r.FindTeamForUser(ctx, ev.ID, bob.ID)
	if err != nil || got.ID != team.ID {
		t.Fatalf("member lookup: %v %v", got, err)
	}
}
