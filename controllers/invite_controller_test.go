package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"Gin_postgres_redis_carnival_tool/app"
	"Gin_postgres_redis_carnival_tool/db"
	"Gin_postgres_redis_carnival_tool/models"
	"Gin_postgres_redis_carnival_tool/notify"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type noopMailer struct{}

func (noopMailer) Send(to, subject, html string) error { return nil }

type noopPusher struct{}

func (noopPusher) Push(sub models.PushSubscription, payload []byte) error { return nil }

func newTestSrv(t *testing.T) *Srv {
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
	return &Srv{
		Repo:      repo,
		Fanout:    notify.New(repo, noopMailer{}, noopPusher{}, "http://localhost:3000", "IT Carnival"),
		WebOrigin: "http://localhost:3000",
		Cfg:       app.Config{AppName: "IT Carnival", SessionTTL: time.Hour},
	}
}

// 测试里不起 Redis：身份用请求头注入，等价于 AuthRequired 干的事
func newTestRouter(s *Srv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set("userID", uid)
			c.Set("email", c.GetHeader("X-Test-Email"))
		}
		c.Next()
	})

	ic := GetInviteController(s)
	teams := r.Group("/api/teams")
	teams.POST("/invite", ic.CreateInvite)
	teams.POST("/invitation/:id/respond", ic.Respond)
	teams.POST("/invitation/withdraw", ic.Withdraw)
	teams.GET("/invitations", ic.MyInvitations)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, u *models.User) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if u != nil {
		req.Header.Set("X-Test-User", u.ID)
		req.Header.Set("X-Test-Email", u.Email)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func seedWorld(t *testing.T, s *Srv) (leader, bob *models.User, team *models.Team) {
	t.Helper()
	ctx := context.Background()
	leader = &models.User{ID: uuid.NewString(), Email: "leader@x.com", DisplayName: "L"}
	bob = &models.User{ID: uuid.NewString(), Email: "bob@x.com", DisplayName: "B"}
	for _, u := range []*models.User{leader, bob} {
		if err := s.Repo.CreateUser(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	ev := &models.Event{ID: uuid.NewString(), Slug: "ctf", Name: "ctf", StartsAt: time.Now(), RegistrationOpen: true}
	if err := s.Repo.CreateEvent(ctx, ev); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	var err error
	team, err = s.Repo.CreateTeam(ctx, ev.ID, "gophers", leader.ID)
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}
	return
}

func TestInviteEndpoint(t *testing.T) {
	s := newTestSrv(t)
	r := newTestRouter(s)
	leader, bob, team := seedWorld(t, s)

	// 未登录
	w, _ := doJSON(t, r, "POST", "/api/teams/invite", gin.H{"teamId": team.ID, "email": "bob@x.com"}, nil)
	if w.Code != 401 {
		t.Fatalf("anonymous: status = %d", w.Code)
	}

	// 非队长
	w, out := doJSON(t, r, "POST", "/api/teams/invite", gin.H{"teamId": team.ID, "email": "c@x.com"}, bob)
	if w.Code != 403 || out["code"] != "forbidden" {
		t.Fatalf("non-leader: status = %d, body = %v", w.Code, out)
	}

	// 队长正常发
	w, out = doJSON(t, r, "POST", "/api/teams/invite", gin.H{"teamId": team.ID, "email": "bob@x.com"}, leader)
	if w.Code != 201 || out["success"] != true {
		t.Fatalf("invite: status = %d, body = %v", w.Code, out)
	}
	invID, _ := out["invitationId"].(string)
	if invID == "" {
		t.Fatalf("missing invitationId: %v", out)
	}

	// 重复发
	w, out = doJSON(t, r, "POST", "/api/teams/invite", gin.H{"teamId": team.ID, "email": "bob@x.com"}, leader)
	if w.Code != 409 || out["code"] != "duplicate_invitation" {
		t.Fatalf("duplicate: status = %d, body = %v", w.Code, out)
	}

	// bob 能在列表里看到
	w, out = doJSON(t, r, "GET", "/api/teams/invitations", nil, bob)
	if w.Code != 200 {
		t.Fatalf("list: status = %d", w.Code)
	}
	if invs, _ := out["invitations"].([]any); len(invs) != 1 {
		t.Fatalf("pending list = %v", out)
	}
}

func TestRespondEndpoint(t *testing.T) {
	s := newTestSrv(t)
	r := newTestRouter(s)
	leader, bob, team := seedWorld(t, s)

	_, out := doJSON(t, r, "POST", "/api/teams/invite", gin.H{"teamId": team.ID, "email": "bob@x.com"}, leader)
	invID, _ := out["invitationId"].(string)

	// 别人替 bob 接受不了
	w, out := doJSON(t, r, "POST", "/api/teams/invitation/"+invID+"/respond", gin.H{"response": "accepted"}, leader)
	if w.Code != 403 || out["code"] != "forbidden" {
		t.Fatalf("wrong user: status = %d, body = %v", w.Code, out)
	}

	w, out = doJSON(t, r, "POST", "/api/teams/invitation/"+invID+"/respond", gin.H{"response": "accepted"}, bob)
	if w.Code != 200 || out["success"] != true {
		t.Fatalf("accept: status = %d, body = %v", w.Code, out)
	}

	ok, err := s.Repo.IsTeamMember(context.Background(), team.ID, bob.ID)
	if err != nil || !ok {
		t.Fatalf("membership missing after accept: %v", err)
	}

	// 第二次响应
	w, out = doJSON(t, r, "POST", "/api/teams/invitation/"+invID+"/respond", gin.H{"response": "declined"}, bob)
	if w.Code != 409 || out["code"] != "already_processed" {
		t.Fatalf("double respond: status = %d, body = %v", w.Code, out)
	}

	// 不存在的邀请
	w, out = doJSON(t, r, "POST", "/api/teams/invitation/"+uuid.NewString()+"/respond", gin.H{"response": "accepted"}, bob)
	if w.Code != 404 || out["code"] != "not_found" {
		t.Fatalf("missing invitation: status = %d, body = %v", w.Code, out)
	}
}

func TestWithdrawEndpoint(t *testing.T) {
	s := newTestSrv(t)
	r := newTestRouter(s)
	leader, bob, team := seedWorld(t, s)

	_, out := doJSON(t, r, "POST", "/api/teams/invite", gin.H{"teamId": team.ID, "email": "bob@x.com"}, leader)
	invID, _ := out["invitationId"].(string)

	// 非队长（哪怕是被邀请人自己）不能撤回
	w, out := doJSON(t, r, "POST", "/api/teams/invitation/withdraw", gin.H{"invitationId": invID}, bob)
	if w.Code != 403 || out["code"] != "forbidden" {
		t.Fatalf("non-leader withdraw: status = %d, body = %v", w.Code, out)
	}

	w, out = doJSON(t, r, "POST", "/api/teams/invitation/withdraw", gin.H{"invitationId": invID}, leader)
	if w.Code != 200 || out["success"] != true {
		t.Fatalf("withdraw: status = %d, body = %v", w.Code, out)
	}

	// 撤回之后 bob 再接受
	w, out = doJSON(t, r, "POST", "/api/teams/invitation/"+invID+"/respond", gin.H{"response": "accepted"}, bob)
	if w.Code != 409 || out["code"] != "already_processed" {
		t.Fatalf("respond after withdraw: status = %d, body = %v", w.Code, out)
	}
	if _, err := s.Repo.FindInvitationByID(context.Background(), invID); err != nil {
		t.Fatalf("invitation row gone: %v", err)
	}
}
