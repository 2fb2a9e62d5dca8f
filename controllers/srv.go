// controllers/srv.go
package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"Gin_postgres_redis_carnival_tool/app"
	"Gin_postgres_redis_carnival_tool/db"
	"Gin_postgres_redis_carnival_tool/notify"
	"Gin_postgres_redis_carnival_tool/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Srv struct {
	Repo      *db.Repo
	AppSess   *session.AppSessionStore
	Fanout    *notify.Fanout
	WebOrigin string
	Cfg       app.Config
}

func GetSrv(a *app.App) *Srv {
	repo := db.NewRepo(a.DB)
	mailer := &notify.SMTPMailer{
		Host:     a.Config.SMTPHost,
		Port:     a.Config.SMTPPort,
		Username: a.Config.SMTPUsername,
		Password: a.Config.SMTPPassword,
		From:     a.Config.SMTPFrom,
		AppName:  a.Config.AppName,
	}
	pusher := &notify.WebPusher{
		Subscriber:      a.Config.VAPIDSubscriber,
		VAPIDPublicKey:  a.Config.VAPIDPublicKey,
		VAPIDPrivateKey: a.Config.VAPIDPrivateKey,
	}
	return &Srv{
		Repo:      repo,
		AppSess:   a.AppSessions(),
		Fanout:    notify.New(repo, mailer, pusher, a.Config.WebOrigin, a.Config.AppName),
		WebOrigin: a.Config.WebOrigin,
		Cfg:       a.Config,
	}
}

func (s *Srv) AppSessions() *session.AppSessionStore { return s.AppSess }

// --- helpers ---

// 从 AuthRequired 放进 Context 的身份取出来，核心操作只认参数
func currentUser(c *gin.Context) (userID, email string, ok bool) {
	v, ok1 := c.Get("userID")
	w, ok2 := c.Get("email")
	if !ok1 || !ok2 {
		return "", "", false
	}
	userID, _ = v.(string)
	email, _ = w.(string)
	return userID, email, userID != ""
}

// 统一设置业务会话 Cookie
func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

// 登录成功：创建会话 + 触发登录快照
func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, userID, email, ip, ua string) error {
	if err := s.Repo.TouchUserLogin(ctx, userID, ip, ua); err != nil {
		// 不阻塞
	}
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, userID, email); err != nil {
		return err
	}
	s.setAppCookie(w, id, s.Cfg.SessionTTL)
	return nil
}
