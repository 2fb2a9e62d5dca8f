package controllers

import (
	"errors"
	"net/http"

	"Gin_postgres_redis_carnival_tool/app"
	"Gin_postgres_redis_carnival_tool/db"

	"github.com/gin-gonic/gin"
)

type TeamController struct{ *Srv }

func NewTeamController(s *Srv) *TeamController { return &TeamController{Srv: s} }

// POST /api/teams — 建队的人就是队长，要求先报名该活动
func (tc *TeamController) CreateTeam(c *gin.Context) {
	var in struct {
		EventID string `json:"eventId" binding:"required"`
		Name    string `json:"name" binding:"required,min=1,max=120"`
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

	registered, err := tc.Repo.IsRegistered(c.Request.Context(), in.EventID, uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error(), "code": "internal"})
		return
	}
	if !registered {
		c.JSON(http.StatusForbidden, app.H{"error": "register for the event first", "code": "forbidden"})
		return
	}

	team, err := tc.Repo.CreateTeam(c.Request.Context(), in.EventID, in.Name, uid)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrEventNotFound):
			c.JSON(http.StatusNotFound, app.H{"error": err.Error(), "code": "not_found"})
		case errors.Is(err, db.ErrAlreadyOnAnotherTeam):
			c.JSON(http.StatusConflict, app.H{"error": err.Error(), "code": "already_on_team"})
		default:
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error(), "code": "internal"})
		}
		return
	}
	c.JSON(http.StatusCreated, team)
}

// GET /api/teams/mine?eventId=
func (tc *TeamController) MyTeam(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized", "code": "unauthorized"})
		return
	}
	eventID := c.Query("eventId")
	if eventID == "" {
		// 不带 eventId 就列出我所有的队伍
		teams, err := tc.Repo.ListMyTeams(c.Request.Context(), uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error(), "code": "internal"})
			return
		}
		c.JSON(http.StatusOK, app.H{"teams": teams})
		return
	}

	team, err := tc.Repo.FindTeamForUser(c.Request.Context(), eventID, uid)
	if err != nil {
		if errors.Is(err, db.ErrTeamNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "no team for this event", "code": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error(), "code": "internal"})
		return
	}
	c.JSON(http.StatusOK, team)
}

// GET /api/teams/:id/members
func (tc *TeamController) ListMembers(c *gin.Context) {
	teamID := c.Param("id")
	if teamID == "" {
		c.JSON(400, app.H{"error": "missing team id", "code": "bad_request"})
		return
	}
	if _, err := tc.Repo.FindTeamByID(c.Request.Context(), teamID); err != nil {
		if errors.Is(err, db.ErrTeamNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": err.Error(), "code": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error(), "code": "internal"})
		return
	}
	ms, err := tc.Repo.ListTeamMembers(c.Request.Context(), teamID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error(), "code": "internal"})
		return
	}
	c.JSON(http.StatusOK, app.H{"members": ms})
}
