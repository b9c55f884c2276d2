package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/http-api/apierr"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

// MockCategoryRepository mocks the CategoryRepository interface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Category), args.Get(1).(int64), args.Error(2)
}

// MockGenreRepository mocks the GenreRepository interface
type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	args := m.Called(ctx, genre)
	return args.Error(0)
}

func (m *MockGenreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *MockGenreRepository) FindBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Genre), args.Get(1).(int64), args.Error(2)
}

func newTestTitleService() (TitleService, *MockTitleRepository, *MockCategoryRepository, *MockGenreRepository, *MockReviewRepository) {
	mockTitles := new(MockTitleRepository)
	mockCategories := new(MockCategoryRepository)
	mockGenres := new(MockGenreRepository)
	mockReviews := new(MockReviewRepository)
	svc := NewTitleService(mockTitles, mockCategories, mockGenres, mockReviews)
	return svc, mockTitles, mockCategories, mockGenres, mockReviews
}

func TestTitleCreate_Success(t *testing.T) {
	svc, mockTitles, mockCategories, mockGenres, _ := newTestTitleService()

	category := &models.Category{ID: 3, Name: "Movies", Slug: "movies"}
	genres := []models.Genre{{ID: 1, Name: "Drama", Slug: "drama"}}
	mockCategories.On("FindBySlug", mock.Anything, "movies").Return(category, nil)
	mockGenres.On("FindBySlugs", mock.Anything, []string{"drama"}).Return(genres, nil)
	mockTitles.On("Create", mock.Anything, mock.AnythingOfType("*models.Title")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Title).ID = 7
	})
	saved := &models.Title{ID: 7, Name: "Some Film", Category: category, Genres: genres}
	mockTitles.On("FindByID", mock.Anything, int64(7)).Return(saved, nil)

	year := 1994
	slug := "movies"
	title, err := svc.Create(context.Background(), &models.Title{Name: "Some Film", Year: &year}, &slug, []string{"drama"})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), title.ID)
	assert.Equal(t, "movies", title.Category.Slug)
	mockTitles.AssertExpectations(t)
}

func TestTitleCreate_FutureYear(t *testing.T) {
	svc, _, _, _, _ := newTestTitleService()

	year := time.Now().Year() + 1
	title, err := svc.Create(context.Background(), &models.Title{Name: "From The Future", Year: &year}, nil, nil)

	assert.Nil(t, title)
	assert.Equal(t, ErrYearOutOfRange, err)
}

func TestTitleCreate_UnknownCategorySlug(t *testing.T) {
	svc, _, mockCategories, _, _ := newTestTitleService()

	mockCategories.On("FindBySlug", mock.Anything, "nope").Return(nil, apierr.New(apierr.NotFound, "category not found"))

	slug := "nope"
	title, err := svc.Create(context.Background(), &models.Title{Name: "Orphan"}, &slug, nil)

	assert.Nil(t, title)
	assert.Equal(t, ErrUnknownCategory, err)
	// surfaced as a bad payload, not a missing resource
	assert.True(t, apierr.IsKind(err, apierr.Validation))
}

func TestTitleCreate_UnknownGenreSlug(t *testing.T) {
	svc, _, _, mockGenres, _ := newTestTitleService()

	// only one of the two slugs resolves
	mockGenres.On("FindBySlugs", mock.Anything, []string{"drama", "nope"}).
		Return([]models.Genre{{ID: 1, Slug: "drama"}}, nil)

	title, err := svc.Create(context.Background(), &models.Title{Name: "Partial"}, nil, []string{"drama", "nope"})

	assert.Nil(t, title)
	assert.Equal(t, ErrUnknownGenre, err)
}

func TestTitleGet_RatingFromReviews(t *testing.T) {
	svc, mockTitles, _, _, mockReviews := newTestTitleService()

	mockTitles.On("FindByID", mock.Anything, int64(7)).Return(&models.Title{ID: 7, Name: "Rated"}, nil)
	rating := 7.5
	mockReviews.On("AverageRating", mock.Anything, int64(7)).Return(&rating, nil)

	title, got, err := svc.GetByID(context.Background(), 7)

	assert.NoError(t, err)
	assert.Equal(t, "Rated", title.Name)
	assert.Equal(t, 7.5, *got)
}

func TestTitleGet_NoReviewsNoRating(t *testing.T) {
	svc, mockTitles, _, _, mockReviews := newTestTitleService()

	mockTitles.On("FindByID", mock.Anything, int64(7)).Return(&models.Title{ID: 7}, nil)
	mockReviews.On("AverageRating", mock.Anything, int64(7)).Return(nil, nil)

	_, rating, err := svc.GetByID(context.Background(), 7)

	assert.NoError(t, err)
	assert.Nil(t, rating)
}

func TestTitleList_RatingsBatch(t *testing.T) {
	svc, mockTitles, _, _, mockReviews := newTestTitleService()

	titles := []models.Title{{ID: 1}, {ID: 2}}
	mockTitles.On("List", mock.Anything, repository.TitleFilter{Genre: "drama"}, 1, 20).
		Return(titles, int64(2), nil)
	mockReviews.On("AverageRatings", mock.Anything, []int64{1, 2}).
		Return(map[int64]float64{1: 4.0}, nil)

	got, ratings, total, err := svc.List(context.Background(), repository.TitleFilter{Genre: "drama"}, 1, 20)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, 4.0, ratings[1])
	_, ok := ratings[2]
	assert.False(t, ok)
}

func TestTitleUpdate_ReplacesGenresOnlyWhenProvided(t *testing.T) {
	svc, mockTitles, _, _, mockReviews := newTestTitleService()

	existing := &models.Title{ID: 7, Name: "Old Name"}
	mockTitles.On("FindByID", mock.Anything, int64(7)).Return(existing, nil)
	mockTitles.On("Update", mock.Anything, mock.AnythingOfType("*models.Title")).Return(nil)
	mockReviews.On("AverageRating", mock.Anything, int64(7)).Return(nil, nil)

	title, _, err := svc.Update(context.Background(), 7, &models.Title{Name: "New Name"}, nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, "New Name", title.Name)
	mockTitles.AssertNotCalled(t, "ReplaceGenres", mock.Anything, mock.Anything, mock.Anything)
}

func TestTitleUpdate_DescriptionTooLong(t *testing.T) {
	svc, mockTitles, _, _, _ := newTestTitleService()

	existing := &models.Title{ID: 7, Name: "Fine"}
	mockTitles.On("FindByID", mock.Anything, int64(7)).Return(existing, nil)

	long := make([]byte, 257)
	for i := range long {
		long[i] = 'x'
	}
	title, _, err := svc.Update(context.Background(), 7, &models.Title{Description: string(long)}, nil, nil)

	assert.Nil(t, title)
	assert.Equal(t, ErrDescriptionLimit, err)
}
