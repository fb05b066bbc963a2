package service

import (
	"context"
	"fmt"
	"log/slog"

	stderrors "errors"

	"github.com/clutchden/clutchden-backend/internal/infrastructure/auth"
	"github.com/clutchden/clutchden-backend/internal/infrastructure/redis"
	"github.com/clutchden/clutchden-backend/internal/models"
	"github.com/clutchden/clutchden-backend/internal/repository"
	pkgerrors "github.com/clutchden/clutchden-backend/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type authService struct {
	userRepo    repository.UserRepository
	redisClient redis.RedisClient
	jwtSecret   string
}

func NewAuthService(userRepo repository.UserRepository, redisClient redis.RedisClient, jwtSecret string) *authService {
	return &authService{
		userRepo:    userRepo,
		redisClient: redisClient,
		jwtSecret:   jwtSecret,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	tracer := otel.Tracer("auth-service")
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	if username == "" || email == "" || password == "" {
		span.SetStatus(codes.Error, "missing registration fields")
		return nil, fmt.Errorf("%w: username, email and password are required", pkgerrors.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		slog.Error("failed to hash password", "email", email, "error", err)
		return nil, fmt.Errorf("%w: failed to hash password", pkgerrors.ErrInternal)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Balance:      0,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if stderrors.Is(err, pkgerrors.ErrUserAlreadyExists) {
			span.SetStatus(codes.Error, "user already exists")
			return nil, err
		}
		span.RecordError(err)
		slog.Error("failed to create user", "email", email, "error", err)
		return nil, fmt.Errorf("%w: failed to create user", pkgerrors.ErrInternal)
	}

	slog.Info("user registered", "user_id", user.ID, "username", username)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	tracer := otel.Tracer("auth-service")
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		slog.Error("failed to login", "email", email, "error", err)
		return "", pkgerrors.ErrInvalidCredentials
	}
	if user.Disabled {
		slog.Warn("disabled account login attempt", "user_id", user.ID)
		return "", pkgerrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Error("invalid password", "email", email)
		return "", pkgerrors.ErrInvalidCredentials
	}

	tokenString, err := auth.GenerateToken(user, s.jwtSecret)
	if err != nil {
		span.RecordError(err)
		slog.Error("failed to generate JWT", "error", err)
		return "", err
	}

	if err := s.redisClient.Set(ctx, auth.TokenKey(user.ID), tokenString, auth.TokenTTL); err != nil {
		span.RecordError(err)
		slog.Error("failed to store session token", "user_id", user.ID, "error", err)
		return "", fmt.Errorf("%w: failed to store session", pkgerrors.ErrInternal)
	}

	slog.Info("user logged in", "email", email, "user_id", user.ID)
	return tokenString, nil
}
