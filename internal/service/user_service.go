package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"github.com/norte-express/fleet-api/internal/dto"
	"github.com/norte-express/fleet-api/internal/models"
	"github.com/norte-express/fleet-api/internal/repository"
)

// UserServiceConfig carries the tunables the user service needs.
type UserServiceConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	CacheTTL   time.Duration
	BcryptCost int
}

// UserService manages user accounts. Every state-changing operation records
// an audit entry through the recorder after the mutation has committed; a
// recording fault never surfaces as the operation's own failure.
type UserService interface {
	Create(ctx context.Context, req dto.CreateUserRequest, origin string) (dto.UserResponse, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateUserRequest, origin string) (dto.UserResponse, error)
	UpdatePassword(ctx context.Context, id string, req dto.UpdatePasswordRequest, origin string) error
	Login(ctx context.Context, req dto.LoginRequest, origin string) (dto.LoginResponse, error)
	Delete(ctx context.Context, id, actorID, origin string) error
}

type userService struct {
	repo      repository.UserRepository
	recorder  ActivityRecorder
	cache     *redis.Client
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	cfg       UserServiceConfig
	now       func() time.Time
}

// NewUserService constructs the user service. The cache client is optional.
func NewUserService(repo repository.UserRepository, recorder ActivityRecorder, cache *redis.Client, validate *validator.Validate, logger zerolog.Logger, cfg UserServiceConfig) UserService {
	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}

	return &userService{
		repo:      repo,
		recorder:  recorder,
		cache:     cache,
		validator: validate,
		logger:    logger.With().Str("component", "user_service").Logger(),
		tracer:    otel.Tracer("github.com/norte-express/fleet-api/internal/service/user"),
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest, origin string) (dto.UserResponse, error) {
	ctx, span := s.tracer.Start(ctx, "user.create")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return dto.UserResponse{}, err
	}

	if _, err := s.repo.FindIDByEmail(ctx, req.Email); err == nil {
		span.SetStatus(codes.Error, "email already registered")
		return dto.UserResponse{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		span.RecordError(err)
		return dto.UserResponse{}, err
	}

	userType := models.UserTypeClient
	if req.AdminID != "" {
		if err := s.ensureAdmin(ctx, req.AdminID); err != nil {
			return dto.UserResponse{}, err
		}
		userType = models.UserTypeAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:                uuid.NewString(),
		FirstName:         strings.ToUpper(req.FirstName),
		LastName:          strings.ToUpper(req.LastName),
		DocumentType:      req.DocumentType,
		DocumentNumber:    req.DocumentNumber,
		PhoneNumber:       req.PhoneNumber,
		Email:             req.Email,
		ProfilePictureURL: req.ProfilePictureURL,
		Password:          string(hash),
		UserType:          userType,
		Active:            true,
		CreatedAt:         s.now().UnixMilli(),
	}

	if err := s.repo.Insert(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return dto.UserResponse{}, err
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	actorID := user.ID
	detail := "client account created"
	if req.AdminID != "" {
		actorID = req.AdminID
		detail = fmt.Sprintf("admin account %s created by %s", user.ID, req.AdminID)
	}
	s.recorder.Record(ctx, ActivityEntry{
		UserID:   actorID,
		Category: models.CategoryUserCreated,
		Detail:   detail,
		Origin:   origin,
	})

	return dto.NewUserResponse(user), nil
}

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return responses, nil
}

func (s *userService) Get(ctx context.Context, id string) (dto.UserResponse, error) {
	if cached, ok := s.cacheGet(ctx, id); ok {
		return cached, nil
	}

	user, err := s.activeUser(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}

	response := dto.NewUserResponse(user)
	s.cacheSet(ctx, response)
	return response, nil
}

func (s *userService) Update(ctx context.Context, id string, req dto.UpdateUserRequest, origin string) (dto.UserResponse, error) {
	ctx, span := s.tracer.Start(ctx, "user.update")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return dto.UserResponse{}, err
	}
	if req.Empty() {
		span.SetStatus(codes.Error, "empty update")
		return dto.UserResponse{}, ErrNoUpdateFields
	}

	user, err := s.activeUser(ctx, id)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if req.Email != nil && *req.Email != user.Email {
		ownerID, err := s.repo.FindIDByEmail(ctx, *req.Email)
		if err == nil && ownerID != id {
			return dto.UserResponse{}, ErrEmailTaken
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return dto.UserResponse{}, err
		}
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = strings.ToUpper(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.ToUpper(*req.LastName)
	}
	if req.DocumentType != nil {
		user.DocumentType = *req.DocumentType
	}
	if req.DocumentNumber != nil {
		user.DocumentNumber = *req.DocumentNumber
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.ProfilePictureURL != nil {
		user.ProfilePictureURL = req.ProfilePictureURL
	}

	updatedAt := s.now().UnixMilli()
	user.UpdatedAt = &updatedAt

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return dto.UserResponse{}, err
	}
	s.cacheInvalidate(ctx, id)

	s.recorder.Record(ctx, ActivityEntry{
		UserID:   id,
		Category: models.CategoryUserUpdated,
		Detail:   fmt.Sprintf("profile of user %s updated", id),
		Origin:   origin,
	})

	return dto.NewUserResponse(user), nil
}

func (s *userService) UpdatePassword(ctx context.Context, id string, req dto.UpdatePasswordRequest, origin string) error {
	ctx, span := s.tracer.Start(ctx, "user.update_password")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return err
	}

	if _, err := s.activeUser(ctx, id); err != nil {
		return err
	}

	creds, err := s.repo.Credentials(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.OldPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, id, string(hash), s.now().UnixMilli()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	s.cacheInvalidate(ctx, id)

	s.recorder.Record(ctx, ActivityEntry{
		UserID:   id,
		Category: models.CategoryPasswordUpdated,
		Detail:   fmt.Sprintf("password of user %s updated", id),
		Origin:   origin,
	})

	return nil
}

func (s *userService) Login(ctx context.Context, req dto.LoginRequest, origin string) (dto.LoginResponse, error) {
	ctx, span := s.tracer.Start(ctx, "user.login")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return dto.LoginResponse{}, err
	}

	id, err := s.repo.FindIDByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			span.SetStatus(codes.Error, "credentials rejected")
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		span.RecordError(err)
		return dto.LoginResponse{}, err
	}
	span.SetAttributes(attribute.String("user.id", id))

	creds, err := s.repo.Credentials(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}
	if !creds.Active || bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(req.Password)) != nil {
		span.SetStatus(codes.Error, "credentials rejected")
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	user, err := s.activeUser(ctx, id)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	token, err := s.signToken(user)
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("sign token: %w", err)
	}

	s.recorder.Record(ctx, ActivityEntry{
		UserID:   id,
		Category: models.CategoryLogin,
		Detail:   fmt.Sprintf("user %s logged in", id),
		Origin:   origin,
	})

	return dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *userService) Delete(ctx context.Context, id, actorID, origin string) error {
	ctx, span := s.tracer.Start(ctx, "user.delete")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", id))

	if strings.TrimSpace(actorID) == "" {
		span.SetStatus(codes.Error, "actor missing")
		return ErrForbidden
	}
	if err := s.ensureAdmin(ctx, actorID); err != nil {
		span.SetStatus(codes.Error, "actor not authorized")
		return err
	}

	if _, err := s.activeUser(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Deactivate(ctx, id, s.now().UnixMilli()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "deactivate failed")
		return err
	}
	s.cacheInvalidate(ctx, id)

	s.recorder.Record(ctx, ActivityEntry{
		UserID:   actorID,
		Category: models.CategoryUserDeleted,
		Detail:   fmt.Sprintf("user %s deleted", id),
		Origin:   origin,
	})

	return nil
}

// activeUser loads a user and hides soft-deleted accounts behind not-found.
func (s *userService) activeUser(ctx context.Context, id string) (models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if !user.Active {
		return models.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (s *userService) ensureAdmin(ctx context.Context, id string) error {
	user, err := s.activeUser(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrForbidden
		}
		return err
	}
	if user.UserType != models.UserTypeAdmin {
		return ErrForbidden
	}
	return nil
}

func (s *userService) signToken(user models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.UserType,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.TokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func userCacheKey(id string) string {
	return "user:" + id
}

func (s *userService) cacheGet(ctx context.Context, id string) (dto.UserResponse, bool) {
	if s.cache == nil {
		return dto.UserResponse{}, false
	}

	payload, err := s.cache.Get(ctx, userCacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug().Err(err).Msg("user cache read failed")
		}
		return dto.UserResponse{}, false
	}

	var response dto.UserResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		return dto.UserResponse{}, false
	}
	return response, true
}

func (s *userService) cacheSet(ctx context.Context, response dto.UserResponse) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, userCacheKey(response.ID), payload, s.cfg.CacheTTL).Err(); err != nil {
		s.logger.Debug().Err(err).Msg("user cache write failed")
	}
}

func (s *userService) cacheInvalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, userCacheKey(id)).Err(); err != nil {
		s.logger.Debug().Err(err).Msg("user cache invalidation failed")
	}
}
