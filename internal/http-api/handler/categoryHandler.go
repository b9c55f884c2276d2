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

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(svc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// reads are open to anonymous callers
	rg.GET("", h.List)

	// Admin-only routes
	rg.POST("", middleware.RequireAdmin(), h.Create)
	rg.DELETE("/:slug", middleware.RequireAdmin(), h.Delete)
}

func (h *CategoryHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(c)
	categories, total, err := h.svc.List(ctx, c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.CategoryResponse, 0, len(categories))
	for _, cat := range categories {
		resp = append(resp, dto.FromCategoryModel(cat))
	}
	respondPage(c, resp, page, pageSize, total)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var in dto.CreateCategoryDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	model := in.ToModel()
	category, err := h.svc.Create(ctx, &model)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromCategoryModel(*category))
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
