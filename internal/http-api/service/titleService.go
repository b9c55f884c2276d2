package service

import (
	"context"
	"time"

	"reviewhub/internal/http-api/apierr"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

var (
	ErrYearOutOfRange   = apierr.New(apierr.Validation, "year must be between 0 and the current year")
	ErrUnknownCategory  = apierr.New(apierr.Validation, "unknown category slug")
	ErrUnknownGenre     = apierr.New(apierr.Validation, "unknown genre slug")
	ErrDescriptionLimit = apierr.New(apierr.Validation, "description must be at most 256 characters")
)

type TitleService interface {
	// Create resolves category and genre slugs and inserts the title.
	Create(ctx context.Context, title *models.Title, categorySlug *string, genreSlugs []string) (*models.Title, error)
	// Update merges provided fields; a nil genreSlugs leaves the genre set
	// untouched, a non-nil one replaces it.
	Update(ctx context.Context, id int64, patch *models.Title, categorySlug *string, genreSlugs []string) (*models.Title, *float64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, *float64, error)
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]models.Title, map[int64]float64, int64, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titles     repository.TitleRepository
	categories repository.CategoryRepository
	genres     repository.GenreRepository
	reviews    repository.ReviewRepository
}

func NewTitleService(
	titles repository.TitleRepository,
	categories repository.CategoryRepository,
	genres repository.GenreRepository,
	reviews repository.ReviewRepository,
) TitleService {
	return &titleService{titles: titles, categories: categories, genres: genres, reviews: reviews}
}

func (s *titleService) Create(ctx context.Context, title *models.Title, categorySlug *string, genreSlugs []string) (*models.Title, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	if categorySlug != nil {
		category, err := s.resolveCategory(ctx, *categorySlug)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}
	genres, err := s.resolveGenres(ctx, genreSlugs)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := s.titles.Create(ctx, title); err != nil {
		return nil, err
	}
	// reload so the response carries the nested category
	return s.titles.FindByID(ctx, title.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, patch *models.Title, categorySlug *string, genreSlugs []string) (*models.Title, *float64, error) {
	existing, err := s.titles.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if patch.Name != "" {
		existing.Name = patch.Name
	}
	if patch.Year != nil {
		existing.Year = patch.Year
	}
	if patch.Description != "" {
		existing.Description = patch.Description
	}
	if err := validateTitle(existing); err != nil {
		return nil, nil, err
	}

	if categorySlug != nil {
		category, err := s.resolveCategory(ctx, *categorySlug)
		if err != nil {
			return nil, nil, err
		}
		existing.CategoryID = &category.ID
	}

	if err := s.titles.Update(ctx, existing); err != nil {
		return nil, nil, err
	}

	if genreSlugs != nil {
		genres, err := s.resolveGenres(ctx, genreSlugs)
		if err != nil {
			return nil, nil, err
		}
		if err := s.titles.ReplaceGenres(ctx, id, genres); err != nil {
			return nil, nil, err
		}
	}

	return s.getWithRating(ctx, id)
}

func (s *titleService) GetByID(ctx context.Context, id int64) (*models.Title, *float64, error) {
	return s.getWithRating(ctx, id)
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]models.Title, map[int64]float64, int64, error) {
	titles, total, err := s.titles.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, nil, 0, err
	}

	ids := make([]int64, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}
	ratings, err := s.reviews.AverageRatings(ctx, ids)
	if err != nil {
		return nil, nil, 0, err
	}

	return titles, ratings, total, nil
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	return s.titles.Delete(ctx, id)
}

func (s *titleService) getWithRating(ctx context.Context, id int64) (*models.Title, *float64, error) {
	title, err := s.titles.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rating, err := s.reviews.AverageRating(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return title, rating, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if apierr.IsKind(err, apierr.NotFound) {
		// a bad slug reference in the payload is the caller's mistake
		return nil, ErrUnknownCategory
	}
	return category, err
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	genres, err := s.genres.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		return nil, ErrUnknownGenre
	}
	return genres, nil
}

func validateTitle(title *models.Title) error {
	if title.Year != nil && (*title.Year < 0 || *title.Year > time.Now().Year()) {
		return ErrYearOutOfRange
	}
	if len(title.Description) > 256 {
		return ErrDescriptionLimit
	}
	return nil
}
