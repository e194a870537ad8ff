package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/norte-express/fleet-api/internal/dto"
	"github.com/norte-express/fleet-api/internal/handler"
	"github.com/norte-express/fleet-api/internal/repository"
	"github.com/norte-express/fleet-api/internal/service"
)

type mockUserService struct {
	lastCreate  dto.CreateUserRequest
	lastLogin   dto.LoginRequest
	lastOrigin  string
	lastID      string
	lastActorID string
	user        dto.UserResponse
	session     dto.LoginResponse
	err         error
}

func (m *mockUserService) Create(_ context.Context, req dto.CreateUserRequest, origin string) (dto.UserResponse, error) {
	m.lastCreate = req
	m.lastOrigin = origin
	if m.err != nil {
		return dto.UserResponse{}, m.err
	}
	return m.user, nil
}

func (m *mockUserService) List(context.Context) ([]dto.UserResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []dto.UserResponse{m.user}, nil
}

func (m *mockUserService) Get(_ context.Context, id string) (dto.UserResponse, error) {
	m.lastID = id
	if m.err != nil {
		return dto.UserResponse{}, m.err
	}
	return m.user, nil
}

func (m *mockUserService) Update(_ context.Context, id string, _ dto.UpdateUserRequest, origin string) (dto.UserResponse, error) {
	m.lastID = id
	m.lastOrigin = origin
	if m.err != nil {
		return dto.UserResponse{}, m.err
	}
	return m.user, nil
}

func (m *mockUserService) UpdatePassword(_ context.Context, id string, _ dto.UpdatePasswordRequest, origin string) error {
	m.lastID = id
	m.lastOrigin = origin
	return m.err
}

func (m *mockUserService) Login(_ context.Context, req dto.LoginRequest, origin string) (dto.LoginResponse, error) {
	m.lastLogin = req
	m.lastOrigin = origin
	if m.err != nil {
		return dto.LoginResponse{}, m.err
	}
	return m.session, nil
}

func (m *mockUserService) Delete(_ context.Context, id, actorID, origin string) error {
	m.lastID = id
	m.lastActorID = actorID
	m.lastOrigin = origin
	return m.err
}

func newUserApp(svc service.UserService) *fiber.App {
	app := fiber.New()
	h := handler.NewUserHandler(svc, zerolog.New(io.Discard))

	public := app.Group("/api/v1/users")
	h.RegisterPublic(public)

	protected := app.Group("/api/v1/users", func(c *fiber.Ctx) error {
		c.Locals("user_id", "admin-1")
		c.Locals("user_role", "admin")
		return c.Next()
	})
	h.RegisterProtected(protected)
	return app
}

func validCreatePayload() dto.CreateUserRequest {
	return dto.CreateUserRequest{
		FirstName:      "maria",
		LastName:       "quispe",
		DocumentType:   "DNI",
		DocumentNumber: "45871236",
		PhoneNumber:    "987654321",
		Email:          "maria@example.com",
		Password:       "super-secret",
	}
}

func TestUserHandler_CreateSuccess(t *testing.T) {
	svc := &mockUserService{user: dto.UserResponse{ID: "u-1", Email: "maria@example.com"}}
	app := newUserApp(svc)

	body, err := json.Marshal(validCreatePayload())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool             `json:"success"`
		Message string           `json:"message"`
		Data    dto.UserResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "user created", response.Message)
	require.Equal(t, "u-1", response.Data.ID)
	require.Equal(t, "maria@example.com", svc.lastCreate.Email)
	require.Equal(t, "203.0.113.9", svc.lastOrigin)
}

func TestUserHandler_CreateNormalizesLoopbackOrigin(t *testing.T) {
	svc := &mockUserService{}
	app := newUserApp(svc)

	body, err := json.Marshal(validCreatePayload())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "::1")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "127.0.0.1", svc.lastOrigin)
}

func TestUserHandler_CreateRejectsInvalidPayload(t *testing.T) {
	svc := &mockUserService{}
	app := newUserApp(svc)

	payload := validCreatePayload()
	payload.DocumentType = "CARNET"
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Empty(t, svc.lastCreate.Email)
}

func TestUserHandler_CreateDuplicateEmail(t *testing.T) {
	svc := &mockUserService{err: service.ErrEmailTaken}
	app := newUserApp(svc)

	body, err := json.Marshal(validCreatePayload())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestUserHandler_LoginSuccess(t *testing.T) {
	svc := &mockUserService{session: dto.LoginResponse{Token: "jwt-token", User: dto.UserResponse{ID: "u-1"}}}
	app := newUserApp(svc)

	body, err := json.Marshal(dto.LoginRequest{Email: "maria@example.com", Password: "super-secret"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.LoginResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "jwt-token", response.Data.Token)
	require.Equal(t, "maria@example.com", svc.lastLogin.Email)
}

func TestUserHandler_LoginInvalidCredentials(t *testing.T) {
	svc := &mockUserService{err: service.ErrInvalidCredentials}
	app := newUserApp(svc)

	body, err := json.Marshal(dto.LoginRequest{Email: "maria@example.com", Password: "wrong-pass"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUserHandler_GetRejectsMalformedID(t *testing.T) {
	svc := &mockUserService{}
	app := newUserApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/users/not-a-uuid", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Empty(t, svc.lastID)
}

func TestUserHandler_GetNotFound(t *testing.T) {
	svc := &mockUserService{err: repository.ErrNotFound}
	app := newUserApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/users/0b7bb4ca-3b1c-4bc2-9a84-56a38d9eb9ba", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUserHandler_DeletePassesActor(t *testing.T) {
	svc := &mockUserService{}
	app := newUserApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/users/0b7bb4ca-3b1c-4bc2-9a84-56a38d9eb9ba", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "admin-1", svc.lastActorID)
	require.Equal(t, "0b7bb4ca-3b1c-4bc2-9a84-56a38d9eb9ba", svc.lastID)
}

func TestUserHandler_DeleteForbidden(t *testing.T) {
	svc := &mockUserService{err: service.ErrForbidden}
	app := newUserApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/v1/users/0b7bb4ca-3b1c-4bc2-9a84-56a38d9eb9ba", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUserHandler_StorageUnavailable(t *testing.T) {
	svc := &mockUserService{err: errors.Join(repository.ErrStorageUnavailable, errors.New("dynamo down"))}
	app := newUserApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
