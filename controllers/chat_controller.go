package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"Gin_postgres_redis_carnival_tool/app"

	"github.com/gin-gonic/gin"
)

// ChatController 站点右下角那个小助手。
// 关键词匹配 + 活动数据，没有就兜底一句去看活动页
type ChatController struct{ *Srv }

func NewChatController(s *Srv) *ChatController { return &ChatController{Srv: s} }

// GET /api/chat?ask=...
func (cc *ChatController) Ask(c *gin.Context) {
	ask := strings.ToLower(strings.TrimSpace(c.Query("ask")))
	if ask == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "ask is required"})
		return
	}

	reply := cc.answer(c, ask)
	c.JSON(http.StatusOK, app.H{"reply": reply})
}

func (cc *ChatController) answer(c *gin.Context, ask string) string {
	switch {
	case strings.Contains(ask, "event") || strings.Contains(ask, "schedule") || strings.Contains(ask, "when"):
		evs, err := cc.Repo.ListEvents(c.Request.Context())
		if err != nil || len(evs) == 0 {
			return "No events are published yet, check back soon!"
		}
		var b strings.Builder
		b.WriteString("Here is what's coming up: ")
		for i, ev := range evs {
			if i > 0 {
				b.WriteString("; ")
			}
			fmt.Fprintf(&b, "%s on %s at %s", ev.Name, ev.StartsAt.Format("Jan 2 15:04"), ev.Venue)
			if i == 4 {
				break
			}
		}
		return b.String()
	case strings.Contains(ask, "team") || strings.Contains(ask, "invite"):
		return "Register for an event first, then create a team or wait for an invitation email. " +
			"Team leaders invite by email from the team page; invitations expire after 7 days."
	case strings.Contains(ask, "register") || strings.Contains(ask, "sign up"):
		return "Open the event page and hit Register. One registration per person per event."
	default:
		return "I can help with events, registration and teams. Try asking \"what events are there?\""
	}
}
