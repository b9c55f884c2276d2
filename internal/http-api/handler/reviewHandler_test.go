package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/service"
)

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Create(ctx context.Context, titleID int64, caller *service.Claims, text string, score int) (*models.Review, error) {
	args := m.Called(ctx, titleID, caller, text, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Review), args.Get(1).(int64), args.Error(2)
}

func (m *MockReviewService) Update(ctx context.Context, titleID, reviewID int64, caller *service.Claims, text *string, score *int) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID, caller, text, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, titleID, reviewID int64, caller *service.Claims) error {
	args := m.Called(ctx, titleID, reviewID, caller)
	return args.Error(0)
}

func setupReviewRouter(svc service.ReviewService, claims *service.Claims) *gin.Engine {
	router := setupRouter()
	group := router.Group("/titles/:title_id/reviews")
	if claims != nil {
		group.Use(setClaims(claims))
	}
	NewReviewHandler(svc).RegisterRoutes(group)
	return router
}

func TestReviewCreate_RequiresAuth(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, nil)

	body, _ := json.Marshal(dto.CreateReviewDTO{Text: "great", Score: 9})
	req, _ := http.NewRequest("POST", "/titles/1/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewCreate_Authenticated(t *testing.T) {
	mockSvc := new(MockReviewService)
	claims := &service.Claims{UserID: "user-1", Username: "reader", Role: models.RoleUser}
	router := setupReviewRouter(mockSvc, claims)

	created := &models.Review{
		ID: 5, TitleID: 1, AuthorID: "user-1", Text: "great", Score: 9,
		PubDate: time.Now(),
		Author:  models.User{ID: "user-1", Username: "reader"},
	}
	mockSvc.On("Create", mock.Anything, int64(1), claims, "great", 9).Return(created, nil)

	body, _ := json.Marshal(dto.CreateReviewDTO{Text: "great", Score: 9})
	req, _ := http.NewRequest("POST", "/titles/1/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response dto.ReviewResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, int64(5), response.ID)
	assert.Equal(t, "reader", response.Author)

	mockSvc.AssertExpectations(t)
}

func TestReviewCreate_DuplicateIsBadRequest(t *testing.T) {
	mockSvc := new(MockReviewService)
	claims := &service.Claims{UserID: "user-1", Username: "reader", Role: models.RoleUser}
	router := setupReviewRouter(mockSvc, claims)

	mockSvc.On("Create", mock.Anything, int64(1), claims, "again", 7).
		Return(nil, service.ErrReviewExists)

	body, _ := json.Marshal(dto.CreateReviewDTO{Text: "again", Score: 7})
	req, _ := http.NewRequest("POST", "/titles/1/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReviewCreate_ScoreValidation(t *testing.T) {
	mockSvc := new(MockReviewService)
	claims := &service.Claims{UserID: "user-1", Username: "reader", Role: models.RoleUser}
	router := setupReviewRouter(mockSvc, claims)

	// binding rejects out-of-range scores before the service is reached
	body, _ := json.Marshal(map[string]interface{}{"text": "great", "score": 11})
	req, _ := http.NewRequest("POST", "/titles/1/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewList_Anonymous(t *testing.T) {
	mockSvc := new(MockReviewService)
	router := setupReviewRouter(mockSvc, nil)

	reviews := []models.Review{
		{ID: 1, TitleID: 1, Text: "first", Score: 8, Author: models.User{Username: "a"}},
		{ID: 2, TitleID: 1, Text: "second", Score: 6, Author: models.User{Username: "b"}},
	}
	mockSvc.On("ListByTitle", mock.Anything, int64(1), 1, 20).Return(reviews, int64(2), nil)

	req, _ := http.NewRequest("GET", "/titles/1/reviews", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []dto.ReviewResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Data, 2)

	mockSvc.AssertExpectations(t)
}

func TestReviewDelete_NonOwnerForbiddenStatus(t *testing.T) {
	mockSvc := new(MockReviewService)
	claims := &service.Claims{UserID: "intruder", Username: "intruder", Role: models.RoleUser}
	router := setupReviewRouter(mockSvc, claims)

	mockSvc.On("Delete", mock.Anything, int64(1), int64(5), claims).Return(service.ErrNotOwner)

	req, _ := http.NewRequest("DELETE", "/titles/1/reviews/5", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockSvc.AssertExpectations(t)
}
