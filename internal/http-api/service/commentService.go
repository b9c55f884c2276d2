package service

import (
	"context"

	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

type CommentService interface {
	Create(ctx context.Context, reviewID int64, caller *Claims, text string) (*models.Comment, error)
	Get(ctx context.Context, reviewID, commentID int64) (*models.Comment, error)
	ListByReview(ctx context.Context, reviewID int64, page, pageSize int) ([]models.Comment, int64, error)
	Update(ctx context.Context, reviewID, commentID int64, caller *Claims, text *string) (*models.Comment, error)
	Delete(ctx context.Context, reviewID, commentID int64, caller *Claims) error
}

type commentService struct {
	comments repository.CommentRepository
	reviews  repository.ReviewRepository
}

func NewCommentService(comments repository.CommentRepository, reviews repository.ReviewRepository) CommentService {
	return &commentService{comments: comments, reviews: reviews}
}

func (s *commentService) Create(ctx context.Context, reviewID int64, caller *Claims, text string) (*models.Comment, error) {
	// a missing parent review is the caller asking for something that
	// does not exist, not a validation problem
	if _, err := s.reviews.GetByID(ctx, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: caller.UserID,
		Text:     text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.FindByID(ctx, reviewID, comment.ID)
}

func (s *commentService) Get(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	return s.comments.FindByID(ctx, reviewID, commentID)
}

func (s *commentService) ListByReview(ctx context.Context, reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	if _, err := s.reviews.GetByID(ctx, reviewID); err != nil {
		return nil, 0, err
	}
	return s.comments.ListByReview(ctx, reviewID, page, pageSize)
}

func (s *commentService) Update(ctx context.Context, reviewID, commentID int64, caller *Claims, text *string) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := authorizeMutation(caller, comment.AuthorID); err != nil {
		return nil, err
	}

	if text != nil {
		comment.Text = *text
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, reviewID, commentID int64, caller *Claims) error {
	comment, err := s.comments.FindByID(ctx, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := authorizeMutation(caller, comment.AuthorID); err != nil {
		return err
	}
	return s.comments.Delete(ctx, comment.ID)
}
