package service

import (
	"context"

	"reviewhub/internal/http-api/apierr"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

var (
	ErrReviewExists  = apierr.New(apierr.Conflict, "review already exists for this title")
	ErrNotOwner      = apierr.New(apierr.Permission, "only the author or staff may modify this resource")
	ErrScoreOutOfRange = apierr.New(apierr.Validation, "score must be between 1 and 10")
)

type ReviewService interface {
	Create(ctx context.Context, titleID int64, caller *Claims, text string, score int) (*models.Review, error)
	Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	Update(ctx context.Context, titleID, reviewID int64, caller *Claims, text *string, score *int) (*models.Review, error)
	Delete(ctx context.Context, titleID, reviewID int64, caller *Claims) error
}

type reviewService struct {
	reviews repository.ReviewRepository
	titles  repository.TitleRepository
}

func NewReviewService(reviews repository.ReviewRepository, titles repository.TitleRepository) ReviewService {
	return &reviewService{reviews: reviews, titles: titles}
}

func (s *reviewService) Create(ctx context.Context, titleID int64, caller *Claims, text string, score int) (*models.Review, error) {
	if score < 1 || score > 10 {
		return nil, ErrScoreOutOfRange
	}
	if _, err := s.titles.FindByID(ctx, titleID); err != nil {
		return nil, err
	}

	// one review per user per title; the unique index catches the race
	// between this check and the insert
	if _, err := s.reviews.FindByTitleAndAuthor(ctx, titleID, caller.UserID); err == nil {
		return nil, ErrReviewExists
	} else if !apierr.IsKind(err, apierr.NotFound) {
		return nil, err
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: caller.UserID,
		Text:     text,
		Score:    score,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	// reload to pick up the author association and pub_date
	return s.reviews.FindByID(ctx, titleID, review.ID)
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	return s.reviews.FindByID(ctx, titleID, reviewID)
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	if _, err := s.titles.FindByID(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviews.ListByTitle(ctx, titleID, page, pageSize)
}

func (s *reviewService) Update(ctx context.Context, titleID, reviewID int64, caller *Claims, text *string, score *int) (*models.Review, error) {
	review, err := s.reviews.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := authorizeMutation(caller, review.AuthorID); err != nil {
		return nil, err
	}

	if text != nil {
		review.Text = *text
	}
	if score != nil {
		if *score < 1 || *score > 10 {
			return nil, ErrScoreOutOfRange
		}
		review.Score = *score
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, titleID, reviewID int64, caller *Claims) error {
	review, err := s.reviews.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := authorizeMutation(caller, review.AuthorID); err != nil {
		return err
	}
	return s.reviews.Delete(ctx, review.ID)
}

// authorizeMutation implements the owner-or-staff rule shared by reviews
// and comments.
func authorizeMutation(caller *Claims, ownerID string) error {
	if caller.UserID == ownerID || caller.Role.CanModerate() {
		return nil
	}
	return ErrNotOwner
}
