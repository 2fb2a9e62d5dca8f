package controllers

import (
	"errors"
	"net/http"
	"time"

	"Gin_postgres_redis_carnival_tool/app"
	"Gin_postgres_redis_carnival_tool/db"
	"Gin_postgres_redis_carnival_tool/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type EventController struct{ *Srv }

func NewEventController(s *Srv) *EventController { return &EventController{Srv: s} }

// 管理员创建活动
func (ec *EventController) CreateEvent(c *gin.Context) {
	var in struct {
		Slug        string    `json:"slug" binding:"required"`
		Name        string    `json:"name" binding:"required"`
		Description string    `json:"description"`
		Venue       string    `json:"venue"`
		StartsAt    time.Time `json:"startsAt" binding:"required"`
		Capacity    int       `json:"capacity"`
		MinTeamSize int       `json:"minTeamSize"`
		MaxTeamSize int       `json:"maxTeamSize"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.MinTeamSize <= 0 {
		in.MinTeamSize = 1
	}
	if in.MaxTeamSize <= 0 {
		in.MaxTeamSize = 4
	}
	ev := &models.Event{
		ID:               uuid.NewString(),
		Slug:             in.Slug,
		Name:             in.Name,
		Description:      in.Description,
		Venue:            in.Venue,
		StartsAt:         in.StartsAt,
		Capacity:         in.Capacity,
		MinTeamSize:      in.MinTeamSize,
		MaxTeamSize:      in.MaxTeamSize,
		RegistrationOpen: true,
	}
	if err := ec.Repo.CreateEvent(c.Request.Context(), ev); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// GET /api/events
func (ec *EventController) ListEvents(c *gin.Context) {
	evs, err := ec.Repo.ListEvents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"events": evs})
}

// GET /api/events/:id
func (ec *EventController) GetEvent(c *gin.Context) {
	ev, err := ec.Repo.FindEventByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": err.Error(), "code": "not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ev)
}

// POST /api/events/:id/register — 个人报名
func (ec *EventController) Register(c *gin.Context) {
	eventID := c.Param("id")
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized", "code": "unauthorized"})
		return
	}

	reg, err := ec.Repo.RegisterForEvent(c.Request.Context(), eventID, uid)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrEventNotFound):
			c.JSON(http.StatusNotFound, app.H{"error": err.Error(), "code": "not_found"})
		case errors.Is(err, db.ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, app.H{"error": err.Error(), "code": "already_registered"})
		case errors.Is(err, db.ErrRegistrationClosed), errors.Is(err, db.ErrEventFull):
			c.JSON(http.StatusConflict, app.H{"error": err.Error(), "code": "registration_closed"})
		default:
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error(), "code": "internal"})
		}
		return
	}
	c.JSON(http.StatusCreated, reg)
}

// GET /api/events/registrations/mine
func (ec *EventController) MyRegistrations(c *gin.Context) {
	uid, _, ok := currentUser(c)
	if !ok {
		c.JSON(401, app.H{"error": "unauthorized", "code": "unauthorized"})
		return
	}
	regs, err := ec.Repo.ListMyRegistrations(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"registrations": regs})
}
