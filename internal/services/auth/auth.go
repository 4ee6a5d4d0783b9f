package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/lib/jwt"
	"github.com/14kear/livepoll/internal/services"
	"github.com/14kear/livepoll/internal/services/polls"
	"github.com/14kear/livepoll/internal/storage"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

var validate = validator.New()

type Auth struct {
	log          *slog.Logger
	userSaver    UserSaver
	userProvider UserProvider
	userEditor   UserEditor
	notifier     Notifier
	secret       string
	accessTTL    time.Duration
}

//go:generate mockgen -source=auth.go -destination=mocks/mock_auth.go -package=mocks

type UserSaver interface {
	SaveUser(ctx context.Context, email, name string, passHash []byte) (int64, error)
}

type UserProvider interface {
	User(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id int64) (models.User, error)
}

type UserEditor interface {
	UpdateUserName(ctx context.Context, id int64, name string) (models.User, error)
	DeleteUser(ctx context.Context, id int64) (storage.DeletedUser, error)
}

// Notifier tells live subscribers about polls changed by an account removal.
type Notifier interface {
	NotifyVoteChange(pollID int64)
	NotifyPollChange(pollID int64, kind string, data any)
}

var (
	ErrInvalidCredentials = services.NewError(services.ErrUnauthorized, "invalid email or password")
	ErrInvalidToken       = services.NewError(services.ErrUnauthorized, "invalid or expired token")
	ErrMissingToken       = services.NewError(services.ErrUnauthorized, "missing access token")
	ErrUserExists         = services.NewError(services.ErrConflict, "user with this email already exists")
	ErrUserNotFound       = services.NewError(services.ErrNotFound, "user not found")
)

// NewAuth returns a new instance of the Auth service.
func NewAuth(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	userEditor UserEditor,
	notifier Notifier,
	secret string,
	accessTTL time.Duration,
) *Auth {
	return &Auth{
		log:          log,
		userSaver:    userSaver,
		userProvider: userProvider,
		userEditor:   userEditor,
		notifier:     notifier,
		secret:       secret,
		accessTTL:    accessTTL,
	}
}

// RegisterNewUser registers new user in the system and returns it.
// If user with given email already exists, returns ErrUserExists.
func (a *Auth) RegisterNewUser(ctx context.Context, email, name, password string) (models.User, error) {
	const op = "auth.RegisterNewUser"

	log := a.log.With(slog.String("op", op))

	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if err := validate.Var(email, "required,email"); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, services.Validation("invalid email"))
	}
	if name == "" {
		return models.User{}, fmt.Errorf("%s: %w", op, services.Validation("name is required"))
	}
	if len(password) < minPasswordLen {
		return models.User{}, fmt.Errorf("%s: %w", op, services.Validation(
			fmt.Sprintf("password must be at least %d characters", minPasswordLen)))
	}

	log.Info("registering user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.userSaver.SaveUser(ctx, email, name, passHash)
	if err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			log.Warn("user already exists", sl.Err(err))
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		log.Error("failed to save user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.Int64("uid", id))

	return models.User{ID: id, Email: email, Name: name}, nil
}

// Login checks the credentials and returns a signed access token.
// Unknown email and wrong password are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, email, password string) (string, models.User, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))
	log.Info("attempting to login user")

	user, err := a.userProvider.User(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))
			return "", models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))
		return "", models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))
		return "", models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := jwt.NewAccessToken(user, a.secret, a.accessTTL)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		return "", models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in", slog.Int64("uid", user.ID))

	return token, user, nil
}

// Authenticate resolves an access token to a principal. The referenced user must still exist.
func (a *Auth) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	const op = "auth.Authenticate"

	if token == "" {
		return models.Principal{}, fmt.Errorf("%s: %w", op, ErrMissingToken)
	}

	claims, err := jwt.ParseAccessToken(token, a.secret)
	if err != nil {
		a.log.Debug("token rejected", slog.String("op", op), sl.Err(err))
		return models.Principal{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	user, err := a.userProvider.UserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.Principal{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
		return models.Principal{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.Principal{UserID: user.ID, Email: user.Email}, nil
}

func (a *Auth) User(ctx context.Context, id int64) (models.User, error) {
	const op = "auth.User"

	user, err := a.userProvider.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (a *Auth) UpdateName(ctx context.Context, id int64, name string) (models.User, error) {
	const op = "auth.UpdateName"

	name = strings.TrimSpace(name)
	if name == "" {
		return models.User{}, fmt.Errorf("%s: %w", op, services.Validation("name is required"))
	}

	user, err := a.userEditor.UpdateUserName(ctx, id, name)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// DeleteUser removes the account together with its polls and votes.
func (a *Auth) DeleteUser(ctx context.Context, id int64) error {
	const op = "auth.DeleteUser"

	log := a.log.With(slog.String("op", op), slog.Int64("uid", id))

	deleted, err := a.userEditor.DeleteUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to delete user", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user deleted",
		slog.Int("authored_polls", len(deleted.AuthoredPolls)),
		slog.Int("voted_polls", len(deleted.VotedPolls)),
	)

	for _, pollID := range deleted.AuthoredPolls {
		a.notifier.NotifyPollChange(pollID, polls.UpdateDeleted, map[string]int64{"pollId": pollID})
	}
	for _, pollID := range deleted.VotedPolls {
		a.notifier.NotifyVoteChange(pollID)
	}

	return nil
}
