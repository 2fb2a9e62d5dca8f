package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"Gin_postgres_redis_carnival_tool/db"
	"Gin_postgres_redis_carnival_tool/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubMailer struct {
	sent []string // "to|subject"
	fail bool
}

func (m *stubMailer) Send(to, subject, html string) error {
	m.sent = append(m.sent, to+"|"+subject)
	if m.fail {
		return errors.New("smtp down")
	}
	return nil
}

type stubPusher struct {
	pushed int
	fail   bool
}

func (p *stubPusher) Push(sub models.PushSubscription, payload []byte) error {
	p.pushed++
	if p.fail {
		return errors.New("endpoint gone")
	}
	return nil
}

func newFanout(t *testing.T, mail *stubMailer, push *stubPusher) (*Fanout, *db.Repo) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := db.NewRepo(gdb)
	return New(repo, mail, push, "http://localhost:3000", "IT Carnival"), repo
}

func seed(t *testing.T, repo *db.Repo) (leader, bob *models.User, team *models.Team, inv *models.TeamInvitation) {
	t.Helper()
	ctx := context.Background()
	leader = &models.User{ID: uuid.NewString(), Email: "leader@x.com", DisplayName: "L"}
	bob = &models.User{ID: uuid.NewString(), Email: "bob@x.com", DisplayName: "B"}
	for _, u := range []*models.User{leader, bob} {
		if err := repo.CreateUser(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	ev := &models.Event{ID: uuid.NewString(), Slug: "ctf", Name: "ctf", StartsAt: time.Now(), RegistrationOpen: true}
	if err := repo.CreateEvent(ctx, ev); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	var err error
	team, err = repo.CreateTeam(ctx, ev.ID, "gophers", leader.ID)
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}
	inv, err = repo.CreateInvitation(ctx, team.ID, bob.Email, leader.ID)
	if err != nil {
		t.Fatalf("seed invitation: %v", err)
	}
	return
}

// 邮件和推送全挂也不影响通知行落库，更不能往上冒错
func TestInvitationCreated_SideEffectFailuresSwallowed(t *testing.T) {
	mail := &stubMailer{fail: true}
	push := &stubPusher{fail: true}
	f, repo := newFanout(t, mail, push)
	ctx := context.Background()
	_, bob, team, inv := seed(t, repo)

	if err := repo.SavePushSubscription(ctx, &models.PushSubscription{
		UserID: bob.ID, Endpoint: "https://push/e", P256dh: "k", Auth: "a",
	}); err != nil {
		t.Fatalf("sub: %v", err)
	}

	f.InvitationCreated(ctx, inv, team)

	if len(mail.sent) != 1 || !strings.HasPrefix(mail.sent[0], "bob@x.com|") {
		t.Fatalf("mail attempts = %v", mail.sent)
	}
	if push.pushed != 1 {
		t.Fatalf("push attempts = %d", push.pushed)
	}

	ns, err := repo.ListNotifications(ctx, bob.ID, false)
	if err != nil || len(ns) != 1 {
		t.Fatalf("notifications = %v %v", ns, err)
	}
	if ns[0].Type != models.NotifyInvitationReceived {
		t.Fatalf("type = %q", ns[0].Type)
	}
}

// 没注册的邮箱只发邮件，不写通知行
func TestInvitationCreated_UnregisteredInvitee(t *testing.T) {
	mail := &stubMailer{}
	f, repo := newFanout(t, mail, &stubPusher{})
	ctx := context.Background()
	leader, _, team, _ := seed(t, repo)

	inv, err := repo.CreateInvitation(ctx, team.ID, "ghost@x.com", leader.ID)
	if err != nil {
		t.Fatalf("invite: %v", err)
	}
	f.InvitationCreated(ctx, inv, team)

	if len(mail.sent) != 1 {
		t.Fatalf("mail attempts = %v", mail.sent)
	}
	var n int64
	repo.DB.Model(&models.Notification{}).Count(&n)
	if n != 0 {
		t.Fatalf("notification rows = %d, want 0", n)
	}
}

// 响应只通知队长，payload 里带 invitationId/teamId
func TestInvitationResponded_NotifiesInviterOnly(t *testing.T) {
	mail := &stubMailer{}
	f, repo := newFanout(t, mail, &stubPusher{})
	ctx := context.Background()
	leader, bob, team, inv := seed(t, repo)

	got, err := repo.RespondToInvitation(ctx, inv.ID, models.InvitationAccepted, bob.ID, bob.Email)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	f.InvitationResponded(ctx, got, team)

	ns, _ := repo.ListNotifications(ctx, leader.ID, false)
	if len(ns) != 1 || ns[0].Type != models.NotifyInvitationAccepted {
		t.Fatalf("inviter notifications = %+v", ns)
	}
	var data map[string]string
	if err := json.Unmarshal([]byte(ns[0].Data), &data); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if data["teamId"] != team.ID || data["invitationId"] != inv.ID {
		t.Fatalf("payload = %v", data)
	}

	// 响应者自己什么都不收
	bobNs, _ := repo.ListNotifications(ctx, bob.ID, false)
	if len(bobNs) != 0 {
		t.Fatalf("responder got notifications: %+v", bobNs)
	}
}

func TestInvitationWithdrawn(t *testing.T) {
	f, repo := newFanout(t, &stubMailer{}, &stubPusher{})
	ctx := context.Background()
	leader, bob, team, inv := seed(t, repo)

	got, err := repo.WithdrawInvitation(ctx, inv.ID, leader.ID)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	f.InvitationWithdrawn(ctx, got, team)

	ns, _ := repo.ListNotifications(ctx, bob.ID, false)
	if len(ns) != 1 || ns[0].Type != models.NotifyInvitationWithdrawn {
		t.Fatalf("invitee notifications = %+v", ns)
	}
}
