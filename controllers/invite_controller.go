package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_redis_carnival_tool/app"
	"Gin_postgres_redis_carnival_tool/db"

	"github.com/gin-gonic/gin"
)

type InviteController struct{ *Srv }

func GetInviteController(s *Srv) *InviteController { return &InviteController{Srv: s} }

// 邀请流程的错误 → HTTP 状态 + 稳定的机器码
func replyInvitationErr(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, db.ErrTeamNotFound), errors.Is(err, db.ErrInvitationNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, db.ErrNotLeader), errors.Is(err, db.ErrNotInvitee):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, db.ErrAlreadyProcessed):
		status, code = http.StatusConflict, "already_processed"
	case errors.Is(err, db.ErrDuplicateInvitation):
		status, code = http.StatusConflict, "duplicate_invitation"
	case errors.Is(err, db.ErrAlreadyMember):
		status, code = http.StatusConflict, "already_member"
	case errors.Is(err, db.ErrAlreadyOnAnotherTeam):
		status, code = http.StatusConflict, "already_on_team"
	case errors.Is(err, db.ErrInvitationExpired):
		status, code = http.StatusGone, "expired"
	case errors.Is(err, db.ErrBadResponse):
		status, code = http.StatusBadRequest, "bad_request"
	}
	c.JSON(status, app.H{"error": err.Error(), "code": code})
}

// POST /api/teams/invite
func (ic *InviteController) CreateInvite(c *gin.Context) {
	var in struct {
		TeamID string `json:"teamId" binding:"required"`
		Email  string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error(), "code": "bad_request"})
		return
	}
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized", "code": "unauthorized"})
		return
	}

	inv, err := ic.Repo.CreateInvitation(c.Request.Context(), in.TeamID, in.Email, uid)
	if err != nil {
		replyInvitationErr(c, err)
		return
	}

	// 邀请行已落库，副作用尽力而为，失败不回滚也不报错
	if team, err := ic.Repo.FindTeamByID(c.Request.Context(), inv.TeamID); err == nil {
		ic.Fanout.InvitationCreated(c.Request.Context(), inv, team)
	}

	c.JSON(http.StatusCreated, app.H{"success": true, "invitationId": inv.ID})
}

// POST /api/teams/invitation/:id/respond
func (ic *InviteController) Respond(c *gin.Context) {
	invitationID := c.Param("id")
	if invitationID == "" {
		c.JSON(400, app.H{"error": "missing invitation id", "code": "bad_request"})
		return
	}
	var in struct {
		Response string `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error(), "code": "bad_request"})
		return
	}
	uid, email, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized", "code": "unauthorized"})
		return
	}

	inv, err := ic.Repo.RespondToInvitation(c.Request.Context(), invitationID, in.Response, uid, email)
	if err != nil {
		replyInvitationErr(c, err)
		return
	}

	// 只通知队长，响应者自己不收
	if team, err := ic.Repo.FindTeamByID(c.Request.Context(), inv.TeamID); err == nil {
		ic.Fanout.InvitationResponded(c.Request.Context(), inv, team)
	}

	c.JSON(http.StatusOK, app.H{"success": true})
}

// POST /api/teams/invitation/withdraw
func (ic *InviteController) Withdraw(c *gin.Context) {
	var in struct {
		InvitationID string `json:"invitationId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error(), "code": "bad_request"})
		return
	}
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized", "code": "unauthorized"})
		return
	}

	inv, err := ic.Repo.WithdrawInvitation(c.Request.Context(), in.InvitationID, uid)
	if err != nil {
		replyInvitationErr(c, err)
		return
	}

	if team, err := ic.Repo.FindTeamByID(c.Request.Context(), inv.TeamID); err == nil {
		ic.Fanout.InvitationWithdrawn(c.Request.Context(), inv, team)
	}

	c.JSON(http.StatusOK, app.H{"success": true})
}

// GET /api/teams/invitations — 我（按登录邮箱）收到的待处理邀请
func (ic *InviteController) MyInvitations(c *gin.Context) {
	_, email, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized", "code": "unauthorized"})
		return
	}
	invs, err := ic.Repo.ListPendingInvitationsForEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error(), "code": "internal"})
		return
	}
	c.JSON(http.StatusOK, app.H{"invitations": invs})
}

// GET /api/teams/:id/invitations — 队长看本队全部邀请
func (ic *InviteController) TeamInvitations(c *gin.Context) {
	teamID := c.Param("id")
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized", "code": "unauthorized"})
		return
	}
	team, err := ic.Repo.FindTeamByID(c.Request.Context(), teamID)
	if err != nil {
		replyInvitationErr(c, err)
		return
	}
	if team.LeaderID != uid {
		c.JSON(http.StatusForbidden, app.H{"error": "only the team leader can do this", "code": "forbidden"})
		return
	}
	invs, err := ic.Repo.ListTeamInvitations(c.Request.Context(), teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error(), "code": "internal"})
		return
	}
	c.JSON(http.StatusOK, app.H{"invitations": invs})
}
