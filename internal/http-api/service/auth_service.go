package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"reviewhub/internal/config"
	"reviewhub/internal/http-api/apierr"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/mailer"
)

var (
	ErrReservedUsername = apierr.New(apierr.Validation, "\"me\" is not allowed as a username")
	ErrInvalidUsername  = apierr.New(apierr.Validation, "username may only contain letters, digits, hyphens and underscores")
	ErrMismatchedPair   = apierr.New(apierr.Validation, "username and email do not match an existing account")
	ErrInvalidCode      = apierr.New(apierr.Validation, "invalid confirmation code")
)

var usernameRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// Claims is the payload of an access token. Role is the effective role at
// issue time, so staff accounts carry admin through the token.
type Claims struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Signup issues a confirmation code for the (username, email) pair,
	// creating the account on first request. The code travels by email only.
	Signup(ctx context.Context, username, email string) (*models.User, error)
	// Token exchanges a valid confirmation code for a bearer access token
	// and consumes the code.
	Token(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	users     repository.UserRepository
	codes     repository.CodeRepository
	mail      mailer.Mailer
	logger    *slog.Logger
	jwtSecret string
	tokenTTL  time.Duration
	codeTTL   time.Duration
}

func NewAuthService(
	users repository.UserRepository,
	codes repository.CodeRepository,
	mail mailer.Mailer,
	cfg *config.Config,
	logger *slog.Logger,
) AuthService {
	return &authService{
		users:     users,
		codes:     codes,
		mail:      mail,
		logger:    logger,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.AccessTokenTTL,
		codeTTL:   cfg.ConfirmationCodeTTL,
	}
}

// ValidateNewUsername rejects the reserved "me" name and bad characters.
// Shared with the user directory, which applies the same rules on admin
// creates and profile updates.
func ValidateNewUsername(username string) error {
	if username == "me" {
		return ErrReservedUsername
	}
	if !usernameRe.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, error) {
	if err := ValidateNewUsername(username); err != nil {
		return nil, err
	}

	byName, err := s.users.FindByUsername(ctx, username)
	if err != nil && !apierr.IsKind(err, apierr.NotFound) {
		return nil, err
	}
	byEmail, err := s.users.FindByEmail(ctx, email)
	if err != nil && !apierr.IsKind(err, apierr.NotFound) {
		return nil, err
	}

	var user *models.User
	switch {
	case byName == nil && byEmail == nil:
		// fresh signup
		user = &models.User{Username: username, Email: email, Role: models.RoleUser}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	case byName != nil && byEmail != nil && byName.ID == byEmail.ID:
		// repeat request for a known pair reuses the account; the response
		// does not distinguish this from a first-time signup
		user = byName
	default:
		// one side matches a different account than the other: rejecting
		// this closes the hijack of an existing username or email
		return nil, ErrMismatchedPair
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash confirmation code: %w", err)
	}
	// overwrites any previously issued code for this account
	if err := s.codes.Store(ctx, user.Username, string(hash), s.codeTTL); err != nil {
		return nil, err
	}

	// delivery is fire-and-forget, failures are only logged
	go func(to, name, code string) {
		if err := s.mail.SendConfirmationCode(to, name, code); err != nil {
			s.logger.Error("failed to send confirmation code", "username", name, "error", err)
		}
	}(user.Email, user.Username, code)

	return user, nil
}

func (s *authService) Token(ctx context.Context, username, code string) (string, error) {
	// unknown username is 404, not a validation failure
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	hash, err := s.codes.Get(ctx, username)
	if errors.Is(err, repository.ErrNoCode) {
		return "", ErrInvalidCode
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		// no lockout and no counter here: repeated wrong codes stay a plain
		// validation failure
		return "", ErrInvalidCode
	}

	// consume the code before minting so it cannot be replayed
	if err := s.codes.Delete(ctx, username); err != nil {
		return "", err
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.EffectiveRole(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, apierr.Wrap(apierr.Authentication, "invalid token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apierr.New(apierr.Authentication, "invalid token")
	}
	return claims, nil
}

func generateCode() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
