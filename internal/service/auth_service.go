package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/FabienBounoir/muscouns/internal/domain"
	"github.com/FabienBounoir/muscouns/internal/repository"

	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// PasswordHasher is satisfied by *crypter.Crypter.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenIssuer is satisfied by *auth.TokenService.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// AuthService owns user identities: registration, credential checks and lookups.
type AuthService interface {
	Register(ctx context.Context, username, password string) (token string, err error)
	Login(ctx context.Context, username, password string) (token string, err error)
	Me(ctx context.Context, userID primitive.ObjectID) (*domain.PublicUser, error)

	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	CreateUser(ctx context.Context, username, password string) (primitive.ObjectID, error)
	VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	now      func() time.Time
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		now:      storageNow,
	}
}

// NormalizeUsername returns the case-insensitive uniqueness key for a username.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Register validates the input, creates the user and returns a token for it.
func (s *authService) Register(ctx context.Context, username, password string) (string, error) {
	if utf8.RuneCountInString(strings.TrimSpace(username)) < MinUsernameLength {
		return "", validationError("username must be at least %d characters", MinUsernameLength)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", validationError("password must be at least %d characters", MinPasswordLength)
	}

	_, err := s.FindByUsername(ctx, username)
	if err == nil {
		return "", ErrUserAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		return "", err
	}

	// A concurrent registration can still win between the lookup and the insert;
	// CreateUser reports that as ErrUserAlreadyExists too.
	userID, err := s.CreateUser(ctx, username, password)
	if err != nil {
		return "", err
	}

	log.Infof("registered user %s", userID.Hex())
	return s.issue(userID)
}

// Login returns a token when the credentials match.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		return "", err
	}
	return s.issue(user.ID)
}

// Me returns the public profile of an authenticated user.
func (s *authService) Me(ctx context.Context, userID primitive.ObjectID) (*domain.PublicUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(err, "failed to find user")
	}
	public := user.Public()
	return &public, nil
}

// FindByUsername looks a user up case-insensitively.
func (s *authService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsernameLower(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(err, "failed to find user")
	}
	return user, nil
}

// CreateUser hashes the password and inserts the user.
func (s *authService) CreateUser(ctx context.Context, username, password string) (primitive.ObjectID, error) {
	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return primitive.NilObjectID, pkgerrors.Wrap(err, "failed to hash password")
	}

	user := &domain.User{
		Username:      strings.TrimSpace(username),
		UsernameLower: NormalizeUsername(username),
		PasswordHash:  passwordHash,
		CreatedAt:     s.now(),
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return primitive.NilObjectID, ErrUserAlreadyExists
		}
		return primitive.NilObjectID, pkgerrors.Wrap(err, "failed to create user")
	}
	return userID, nil
}

// VerifyCredentials returns ErrAuthenticationFailed for an unknown user and for a
// wrong password alike.
func (s *authService) VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrAuthenticationFailed
	}
	return user, nil
}

func (s *authService) issue(userID primitive.ObjectID) (string, error) {
	token, err := s.tokens.Issue(userID.Hex())
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to generate authentication token")
	}
	return token, nil
}

// storageNow is the clock used for persisted timestamps. MongoDB keeps milliseconds,
// truncating here keeps returned values equal to what a later read yields.
func storageNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
