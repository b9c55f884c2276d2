package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"reviewhub/internal/http-api/models"
)

// TitleFilter holds the query predicates for title listing. Zero values
// mean "no filter".
type TitleFilter struct {
	Category string // category slug, exact
	Genre    string // genre slug, exact
	Name     string // substring, case-insensitive
	Year     *int
}

type TitleRepository interface {
	Create(ctx context.Context, title *models.Title) error
	Update(ctx context.Context, title *models.Title) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*models.Title, error)
	List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	ReplaceGenres(ctx context.Context, titleID int64, genres []models.Genre) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

// Create inserts the title and, through the association, the link rows for
// any genres already set on it.
func (r *titleRepository) Create(ctx context.Context, title *models.Title) error {
	return translate(r.db.WithContext(ctx).Create(title).Error, "title")
}

func (r *titleRepository) Update(ctx context.Context, title *models.Title) error {
	// Save skips the association so genre replacement stays an explicit,
	// separate step
	err := r.db.WithContext(ctx).Omit("Genres").Save(title).Error
	return translate(err, "title")
}

func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "title")
	}
	return nil
}

func (r *titleRepository) FindByID(ctx context.Context, id int64) (*models.Title, error) {
	var title models.Title
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&title, id).Error; err != nil {
		return nil, translate(err, "title")
	}
	return &title, nil
}

func (r *titleRepository) List(ctx context.Context, filter TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var titles []models.Title
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Title{})
	if filter.Category != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", filter.Category)
	}
	if filter.Genre != "" {
		q = q.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", filter.Genre)
	}
	if filter.Name != "" {
		q = q.Where("titles.name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Year != nil {
		q = q.Where("titles.year = ?", *filter.Year)
	}

	if err := q.Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := q.Distinct().
		Preload("Category").
		Preload("Genres").
		Order("titles.id").
		Limit(pageSize).
		Offset(offset).
		Find(&titles).Error; err != nil {
		return nil, 0, err
	}

	return titles, total, nil
}

// ReplaceGenres swaps the title's genre set inside a transaction.
func (r *titleRepository) ReplaceGenres(ctx context.Context, titleID int64, genres []models.Genre) error {
	tx := r.db.WithContext(ctx).Begin()
	var title models.Title
	if err := tx.First(&title, titleID).Error; err != nil {
		tx.Rollback()
		return translate(err, "title")
	}
	if err := tx.Model(&title).Association("Genres").Replace(&genres); err != nil {
		tx.Rollback()
		return fmt.Errorf("replace genres: %w", err)
	}
	return tx.Commit().Error
}
