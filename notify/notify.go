// notify/notify.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"Gin_postgres_redis_carnival_tool/db"
	"Gin_postgres_redis_carnival_tool/models"
)

// Mailer / Pusher 都是尽力而为的出口，失败只记日志
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

type Pusher interface {
	Push(sub models.PushSubscription, payload []byte) error
}

// Fanout 在核心状态迁移提交之后被调用。
// 每个副作用各自兜错：通知行、邮件、推送互不影响，也绝不影响调用方的结果
type Fanout struct {
	Repo      *db.Repo
	Mail      Mailer
	Push      Pusher
	WebOrigin string
	AppName   string
}

func New(repo *db.Repo, mail Mailer, push Pusher, webOrigin, appName string) *Fanout {
	return &Fanout{Repo: repo, Mail: mail, Push: push, WebOrigin: webOrigin, AppName: appName}
}

// InvitationCreated：给被邀请邮箱发邮件；已注册用户再补一条站内通知 + 推送
func (f *Fanout) InvitationCreated(ctx context.Context, inv *models.TeamInvitation, team *models.Team) {
	link := fmt.Sprintf("%s/invitations/%s", f.WebOrigin, inv.ID)
	subject := fmt.Sprintf("%s — you are invited to join team %q", f.AppName, team.Name)
	body := inviteMailBody(f.AppName, team.Name, link)
	if err := f.Mail.Send(inv.InviteeEmail, subject, body); err != nil {
		log.Printf("[notify] invite email to %s failed: %v", inv.InviteeEmail, err)
	}

	invitee, err := f.Repo.FindUserByEmail(ctx, inv.InviteeEmail)
	if err != nil {
		// 没注册就只有邮件，很正常
		return
	}
	f.insertAndPush(ctx, invitee.ID, models.Notification{
		UserID:  invitee.ID,
		Type:    models.NotifyInvitationReceived,
		Title:   "Team invitation",
		Message: fmt.Sprintf("You have been invited to join team %q", team.Name),
		Data:    payload(inv.ID, team.ID),
	})
}

// InvitationResponded：只通知队长，接受/拒绝的人自己不收任何东西
func (f *Fanout) InvitationResponded(ctx context.Context, inv *models.TeamInvitation, team *models.Team) {
	typ := models.NotifyInvitationDeclined
	msg := fmt.Sprintf("%s declined the invitation to team %q", inv.InviteeEmail, team.Name)
	if inv.Status == models.InvitationAccepted {
		typ = models.NotifyInvitationAccepted
		msg = fmt.Sprintf("%s joined team %q", inv.InviteeEmail, team.Name)
	}
	f.insertAndPush(ctx, inv.InviterID, models.Notification{
		UserID:  inv.InviterID,
		Type:    typ,
		Title:   "Invitation update",
		Message: msg,
		Data:    payload(inv.ID, team.ID),
	})

	if inviter, err := f.Repo.FindUserByID(ctx, inv.InviterID); err == nil {
		subject := fmt.Sprintf("%s — invitation update for team %q", f.AppName, team.Name)
		if err := f.Mail.Send(inviter.Email, subject, "<p>"+msg+"</p>"); err != nil {
			log.Printf("[notify] response email to %s failed: %v", inviter.Email, err)
		}
	}
}

// InvitationWithdrawn：被邀请人有账号才有人可通知，没有就算了
func (f *Fanout) InvitationWithdrawn(ctx context.Context, inv *models.TeamInvitation, team *models.Team) {
	invitee, err := f.Repo.FindUserByEmail(ctx, inv.InviteeEmail)
	if err != nil {
		return
	}
	f.insertAndPush(ctx, invitee.ID, models.Notification{
		UserID:  invitee.ID,
		Type:    models.NotifyInvitationWithdrawn,
		Title:   "Invitation withdrawn",
		Message: fmt.Sprintf("The invitation to team %q was withdrawn", team.Name),
		Data:    payload(inv.ID, team.ID),
	})
}

func (f *Fanout) insertAndPush(ctx context.Context, userID string, n models.Notification) {
	if err := f.Repo.CreateNotification(ctx, &n); err != nil {
		log.Printf("[notify] notification insert for %s failed: %v", userID, err)
	}
	if f.Push == nil {
		return
	}
	subs, err := f.Repo.ListPushSubscriptions(ctx, userID)
	if err != nil || len(subs) == 0 {
		return
	}
	b, _ := json.Marshal(map[string]string{
		"title":   n.Title,
		"message": n.Message,
		"data":    n.Data,
	})
	for _, sub := range subs {
		if err := f.Push.Push(sub, b); err != nil {
			log.Printf("[notify] push to %s failed: %v", sub.Endpoint, err)
		}
	}
}

func payload(invitationID, teamID string) string {
	b, _ := json.Marshal(map[string]string{
		"invitationId": invitationID,
		"teamId":       teamID,
	})
	return string(b)
}

func inviteMailBody(appName, teamName, link string) string {
	return fmt.Sprintf(`
<div style="font-family:Arial,sans-serif; font-size:14px; color:#222">
  <p>Hello,</p>
  <p>You have been invited to join team <b>%s</b> at <b>%s</b>. Click the button below to respond:</p>
  <p>
    <a href="%s" style="display:inline-block; padding:10px 16px; background:#2563EB; color:#fff; text-decoration:none; border-radius:6px;">
      View Invitation
    </a>
  </p>
  <p>Or open this link directly:</p>
  <p><a href="%s">%s</a></p>
  <p>This invitation will expire in 7 days.</p>
  <hr/>
  <p style="color:#666">If you did not expect this email, you can safely ignore it.</p>
</div>
`, teamName, appName, link, link, link)
}
