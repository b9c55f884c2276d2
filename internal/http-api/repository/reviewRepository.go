package repository

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"reviewhub/internal/http-api/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, titleID, id int64) (*models.Review, error)
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	FindByTitleAndAuthor(ctx context.Context, titleID int64, authorID string) (*models.Review, error)
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	AverageRating(ctx context.Context, titleID int64) (*float64, error)
	AverageRatings(ctx context.Context, titleIDs []int64) (map[int64]float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	// the (title_id, author_id) unique index turns a racing second review
	// into a conflict here
	return translate(r.db.WithContext(ctx).Create(review).Error, "review")
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return translate(r.db.WithContext(ctx).Omit("Title", "Author").Save(review).Error, "review")
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "review")
	}
	return nil
}

// FindByID is scoped to the path-supplied title id: a review id under the
// wrong title is not found.
func (r *reviewRepository) FindByID(ctx context.Context, titleID, id int64) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("title_id = ?", titleID).
		First(&review, id).Error; err != nil {
		return nil, translate(err, "review")
	}
	return &review, nil
}

// GetByID is the unscoped lookup used to resolve the parent review of a
// comment route.
func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, translate(err, "review")
	}
	return &review, nil
}

func (r *reviewRepository) FindByTitleAndAuthor(ctx context.Context, titleID int64, authorID string) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).
		Where("title_id = ? AND author_id = ?", titleID, authorID).
		First(&review).Error; err != nil {
		return nil, translate(err, "review")
	}
	return &review, nil
}

func (r *reviewRepository) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).
		Where("title_id = ?", titleID).
		Preload("Author").
		Order("pub_date DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error; err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// AverageRating computes the title's rating on read. Nil means the title
// has no reviews, which serializes as an absent rating.
func (r *reviewRepository) AverageRating(ctx context.Context, titleID int64) (*float64, error) {
	var avg sql.NullFloat64
	row := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("AVG(score)").
		Where("title_id = ?", titleID).
		Row()
	if err := row.Scan(&avg); err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// AverageRatings is the grouped variant for list endpoints; titles without
// reviews are simply absent from the map.
func (r *reviewRepository) AverageRatings(ctx context.Context, titleIDs []int64) (map[int64]float64, error) {
	ratings := make(map[int64]float64, len(titleIDs))
	if len(titleIDs) == 0 {
		return ratings, nil
	}

	rows := []struct {
		TitleID int64
		Average float64
	}{}
	if err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("title_id, AVG(score) as average").
		Where("title_id IN ?", titleIDs).
		Group("title_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("average ratings: %w", err)
	}

	for _, row := range rows {
		ratings[row.TitleID] = row.Average
	}
	return ratings, nil
}
