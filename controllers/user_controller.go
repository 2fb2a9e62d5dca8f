package controllers

import (
	"net/http"
	"strconv"

	"Gin_postgres_redis_carnival_tool/app"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UserController struct{ *Srv }

func GetUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// GET /api/users?q=alice&page=1&size=20
func (uc *UserController) ListUsers(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Repo.ListUsers(c.Request.Context(), q, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, app.H{
		"total": res.Total,
		"users": res.Users,
	})
}

// GET /api/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user id is required"})
		return
	}
	if _, err := uuid.Parse(id); err != nil { // ✅ 校验 UUID 格式
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid uuid"})
		return
	}
	user, err := uc.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, app.H{
		"user": user,
	})
}

// POST /api/users/:id/admin — 升降管理员
func (uc *UserController) SetAdmin(c *gin.Context) {
	id := c.Param("id")
	var in struct {
		IsAdmin bool `json:"isAdmin"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	// 不允许把自己降级，避免锁死
	if v, ok := c.Get("userID"); ok {
		if uid, _ := v.(string); uid == id && !in.IsAdmin {
			c.JSON(http.StatusBadRequest, app.H{"error": "cannot demote yourself"})
			return
		}
	}

	if err := uc.Repo.SetUserAdmin(c.Request.Context(), id, in.IsAdmin); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
