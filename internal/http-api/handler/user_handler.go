package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// self-service routes; any authenticated user
	rg.GET("/me", middleware.RequireAuthenticated(), h.GetMe)
	rg.PATCH("/me", middleware.RequireAuthenticated(), h.UpdateMe)

	// Admin-only routes
	rg.GET("", middleware.RequireAdmin(), h.List)
	rg.POST("", middleware.RequireAdmin(), h.Create)
	rg.GET("/:username", middleware.RequireAdmin(), h.Get)
	rg.PATCH("/:username", middleware.RequireAdmin(), h.Update)
	rg.DELETE("/:username", middleware.RequireAdmin(), h.Delete)
}

func (h *UserHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(c)
	users, total, err := h.svc.List(ctx, c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.FromUserModel(u))
	}
	respondPage(c, resp, page, pageSize, total)
}

func (h *UserHandler) Create(c *gin.Context) {
	var in dto.CreateUserDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	model := in.ToModel()
	user, err := h.svc.Create(ctx, &model)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromUserModel(*user))
}

func (h *UserHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.svc.GetByUsername(ctx, c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserModel(*user))
}

func (h *UserHandler) Update(c *gin.Context) {
	var in dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var patch models.User
	in.ApplyTo(&patch)
	user, err := h.svc.Update(ctx, c.Param("username"), &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserModel(*user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) GetMe(c *gin.Context) {
	claims, _ := middleware.CurrentClaims(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.svc.GetByID(ctx, claims.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserModel(*user))
}

// UpdateMe lets the caller edit their own profile. The service keeps the
// stored role no matter what the payload says.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	claims, _ := middleware.CurrentClaims(c)

	var in dto.UpdateUserDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var patch models.User
	in.ApplyTo(&patch)
	user, err := h.svc.UpdateSelf(ctx, claims.UserID, &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromUserModel(*user))
}
