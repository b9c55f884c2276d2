package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/service"
)

type GenreHandler struct {
	svc service.GenreService
}

func NewGenreHandler(svc service.GenreService) *GenreHandler {
	return &GenreHandler{svc: svc}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)

	// Admin-only routes
	rg.POST("", middleware.RequireAdmin(), h.Create)
	rg.DELETE("/:slug", middleware.RequireAdmin(), h.Delete)
}

func (h *GenreHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(c)
	genres, total, err := h.svc.List(ctx, c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.GenreResponse, 0, len(genres))
	for _, g := range genres {
		resp = append(resp, dto.FromGenreModel(g))
	}
	respondPage(c, resp, page, pageSize, total)
}

func (h *GenreHandler) Create(c *gin.Context) {
	var in dto.CreateGenreDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	model := in.ToModel()
	genre, err := h.svc.Create(ctx, &model)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromGenreModel(*genre))
}

func (h *GenreHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
