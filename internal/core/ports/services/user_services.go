package services

import (
	"context"
	"time"

	"github.com/quintalabs/bizcore/internal/core/domain"
	"github.com/quintalabs/bizcore/internal/dto"
)

// UserReaderSvc provides read access to users.
type UserReaderSvc interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context, limit int, offset int) ([]domain.User, error)
}

// UserWriterSvc provides user mutation operations.
type UserWriterSvc interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, actingUserID string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string, actingUserID string) error
}

// UserAuthSvc covers credential verification and refresh token persistence.
type UserAuthSvc interface {
	AuthenticateUser(ctx context.Context, username string, password string) (*domain.User, error)
	StoreRefreshTokenHash(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
	GetOrCreateUserFromGoogle(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error)
}

// UserSvcFacade combines all user service capabilities.
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserAuthSvc
}
