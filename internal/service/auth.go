package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tripstack/train-booking-system/internal/auth"
	"github.com/tripstack/train-booking-system/internal/database"
)

// ErrInvalidCredentials is returned for a wrong email/password
// combination. The message deliberately does not say which half was
// wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for signing in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the payload for self-managing an account.
// An empty password leaves the current one in place.
type UpdateProfileRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a freshly issued token pair
type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         database.User `json:"user"`
	ExpiresAt    time.Time     `json:"expires_at"`
}

// AuthService handles registration, login and token refresh
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Profile(ctx context.Context, userID int64) (*database.User, error)
	UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*database.User, error)
}

type authServiceImpl struct {
	repo *database.Repository
	jwt  *auth.JWTService
}

// NewAuthService creates an AuthService
func NewAuthService(repo *database.Repository, jwt *auth.JWTService) AuthService {
	return &authServiceImpl{repo: repo, jwt: jwt}
}

func (s *authServiceImpl) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Email == "" {
		return nil, &database.ValidationError{Field: "email", Message: "email is required"}
	}
	if len(req.Password) < 6 {
		return nil, &database.ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &database.User{Email: req.Email, PasswordHash: string(hash)}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *authServiceImpl) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	// Re-read the user so a revoked account or changed staff flag
	// takes effect on the next refresh.
	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	return s.issueTokens(user)
}

func (s *authServiceImpl) Profile(ctx context.Context, userID int64) (*database.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *authServiceImpl) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*database.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	passwordHash := ""
	if req.Password != "" {
		if len(req.Password) < 6 {
			return nil, &database.ValidationError{Field: "password", Message: "password must be at least 6 characters"}
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		passwordHash = string(hash)
	}

	update := *user
	update.PasswordHash = passwordHash
	if err := s.repo.UpdateUser(ctx, &update); err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, userID)
}

func (s *authServiceImpl) issueTokens(user *database.User) (*AuthResponse, error) {
	access, refresh, err := s.jwt.GenerateTokenPair(user.ID, user.IsStaff)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *user,
		ExpiresAt:    time.Now().Add(s.jwt.AccessTTL()),
	}, nil
}
