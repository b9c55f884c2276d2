package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/middleware"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/http-api/service"
)

type TitleHandler struct {
	svc service.TitleService
}

func NewTitleHandler(svc service.TitleService) *TitleHandler {
	return &TitleHandler{svc: svc}
}

func (h *TitleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// reads are open to anonymous callers
	rg.GET("", h.List)
	rg.GET("/:title_id", h.Get)

	// Admin-only routes
	rg.POST("", middleware.RequireAdmin(), h.Create)
	rg.PATCH("/:title_id", middleware.RequireAdmin(), h.Update)
	rg.DELETE("/:title_id", middleware.RequireAdmin(), h.Delete)
}

func (h *TitleHandler) List(c *gin.Context) {
	filter := repository.TitleFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Genre:    strings.TrimSpace(c.Query("genre")),
		Name:     strings.TrimSpace(c.Query("name")),
	}
	if yearStr := strings.TrimSpace(c.Query("year")); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year parameter"})
			return
		}
		filter.Year = &year
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(c)
	titles, ratings, total, err := h.svc.List(ctx, filter, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.TitleResponse, 0, len(titles))
	for _, t := range titles {
		var rating *float64
		if v, ok := ratings[t.ID]; ok {
			rating = &v
		}
		resp = append(resp, dto.FromTitleModel(t, rating))
	}
	respondPage(c, resp, page, pageSize, total)
}

func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "title_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	title, rating, err := h.svc.GetByID(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTitleModel(*title, rating))
}

func (h *TitleHandler) Create(c *gin.Context) {
	var in dto.CreateTitleDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	model := models.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
	}
	title, err := h.svc.Create(ctx, &model, in.Category, in.Genre)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromTitleModel(*title, nil))
}

func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "title_id")
	if !ok {
		return
	}

	var in dto.UpdateTitleDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var patch models.Title
	if in.Name != nil {
		patch.Name = *in.Name
	}
	patch.Year = in.Year
	if in.Description != nil {
		patch.Description = *in.Description
	}

	title, rating, err := h.svc.Update(ctx, id, &patch, in.Category, in.Genre)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromTitleModel(*title, rating))
}

func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "title_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
