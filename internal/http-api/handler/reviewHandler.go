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

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// RegisterRoutes expects a group mounted at /titles/:title_id/reviews.
// Ownership checks for updates and deletes happen in the service, which
// knows the record's author.
func (h *ReviewHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:review_id", h.Get)

	rg.POST("", middleware.RequireAuthenticated(), h.Create)
	rg.PATCH("/:review_id", middleware.RequireAuthenticated(), h.Update)
	rg.DELETE("/:review_id", middleware.RequireAuthenticated(), h.Delete)
}

func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := parseID(c, "title_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(c)
	reviews, total, err := h.svc.ListByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		resp = append(resp, dto.FromReviewModel(r))
	}
	respondPage(c, resp, page, pageSize, total)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, ok := parseID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseID(c, "review_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	review, err := h.svc.Get(ctx, titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromReviewModel(*review))
}

func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := parseID(c, "title_id")
	if !ok {
		return
	}
	claims, _ := middleware.CurrentClaims(c)

	var in dto.CreateReviewDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	review, err := h.svc.Create(ctx, titleID, claims, in.Text, in.Score)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromReviewModel(*review))
}

func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, ok := parseID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseID(c, "review_id")
	if !ok {
		return
	}
	claims, _ := middleware.CurrentClaims(c)

	var in dto.UpdateReviewDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	review, err := h.svc.Update(ctx, titleID, reviewID, claims, in.Text, in.Score)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromReviewModel(*review))
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, ok := parseID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := parseID(c, "review_id")
	if !ok {
		return
	}
	claims, _ := middleware.CurrentClaims(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, titleID, reviewID, claims); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
