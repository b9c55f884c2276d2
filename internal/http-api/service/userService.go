package service

import (
	"context"

	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
)

type UserService interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Update is the admin path: provided fields are applied, including role.
	Update(ctx context.Context, username string, patch *models.User) (*models.User, error)
	// UpdateSelf applies profile fields but always preserves the stored
	// role, whatever the payload carried.
	UpdateSelf(ctx context.Context, userID string, patch *models.User) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ValidateNewUsername(user.Username); err != nil {
		return nil, err
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	// the unique indexes on username and email report duplicates as conflicts
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	return s.repo.List(ctx, search, page, pageSize)
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) Update(ctx context.Context, username string, patch *models.User) (*models.User, error) {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := applyPatch(existing, patch, true); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *userService) UpdateSelf(ctx context.Context, userID string, patch *models.User) (*models.User, error) {
	existing, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := applyPatch(existing, patch, false); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	return s.repo.Delete(ctx, username)
}

// applyPatch merges provided (non-zero) fields onto existing. Role is only
// applied on the admin path; the self-service path silently keeps the
// stored role, which is what blocks privilege escalation via profile edit.
func applyPatch(existing, patch *models.User, allowRole bool) error {
	if patch.Username != "" && patch.Username != existing.Username {
		if err := ValidateNewUsername(patch.Username); err != nil {
			return err
		}
		existing.Username = patch.Username
	}
	if patch.Email != "" {
		existing.Email = patch.Email
	}
	if patch.FirstName != "" {
		existing.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		existing.LastName = patch.LastName
	}
	if patch.Bio != "" {
		existing.Bio = patch.Bio
	}
	if allowRole && patch.Role != "" && patch.Role.Valid() {
		existing.Role = patch.Role
	}
	return nil
}
