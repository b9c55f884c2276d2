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

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(svc service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// RegisterRoutes expects a group mounted at /reviews/:review_id/comments.
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:comment_id", h.Get)

	rg.POST("", middleware.RequireAuthenticated(), h.Create)
	rg.PATCH("/:comment_id", middleware.RequireAuthenticated(), h.Update)
	rg.DELETE("/:comment_id", middleware.RequireAuthenticated(), h.Delete)
}

func (h *CommentHandler) List(c *gin.Context) {
	reviewID, ok := parseID(c, "review_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, pageSize := parsePagination(c)
	comments, total, err := h.svc.ListByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.CommentResponse, 0, len(comments))
	for _, cm := range comments {
		resp = append(resp, dto.FromCommentModel(cm))
	}
	respondPage(c, resp, page, pageSize, total)
}

func (h *CommentHandler) Get(c *gin.Context) {
	reviewID, ok := parseID(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "comment_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comment, err := h.svc.Get(ctx, reviewID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCommentModel(*comment))
}

func (h *CommentHandler) Create(c *gin.Context) {
	reviewID, ok := parseID(c, "review_id")
	if !ok {
		return
	}
	claims, _ := middleware.CurrentClaims(c)

	var in dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comment, err := h.svc.Create(ctx, reviewID, claims, in.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromCommentModel(*comment))
}

func (h *CommentHandler) Update(c *gin.Context) {
	reviewID, ok := parseID(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "comment_id")
	if !ok {
		return
	}
	claims, _ := middleware.CurrentClaims(c)

	var in dto.UpdateCommentDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	comment, err := h.svc.Update(ctx, reviewID, commentID, claims, in.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCommentModel(*comment))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	reviewID, ok := parseID(c, "review_id")
	if !ok {
		return
	}
	commentID, ok := parseID(c, "comment_id")
	if !ok {
		return
	}
	claims, _ := middleware.CurrentClaims(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, reviewID, commentID, claims); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
