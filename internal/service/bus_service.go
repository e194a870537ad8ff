package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/norte-express/fleet-api/internal/dto"
	"github.com/norte-express/fleet-api/internal/models"
	"github.com/norte-express/fleet-api/internal/repository"
)

// BusService manages the vehicle fleet. Mutations record audit entries the
// same way the user service does: after commit, best-effort.
type BusService interface {
	Register(ctx context.Context, req dto.CreateBusRequest, actorID, origin string) (dto.BusResponse, error)
	List(ctx context.Context) ([]dto.BusResponse, error)
	Get(ctx context.Context, id string) (dto.BusResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateBusRequest, actorID, origin string) (dto.BusResponse, error)
	Delete(ctx context.Context, id, actorID, origin string) error
}

type busService struct {
	repo      repository.BusRepository
	recorder  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewBusService constructs the bus service.
func NewBusService(repo repository.BusRepository, recorder ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) BusService {
	return &busService{
		repo:      repo,
		recorder:  recorder,
		validator: validate,
		logger:    logger.With().Str("component", "bus_service").Logger(),
		tracer:    otel.Tracer("github.com/norte-express/fleet-api/internal/service/bus"),
		now:       time.Now,
	}
}

func (s *busService) Register(ctx context.Context, req dto.CreateBusRequest, actorID, origin string) (dto.BusResponse, error) {
	ctx, span := s.tracer.Start(ctx, "bus.register")
	defer span.End()
	span.SetAttributes(attribute.String("bus.plate", req.LicensePlate))

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return dto.BusResponse{}, err
	}

	if _, err := s.repo.FindIDByPlate(ctx, req.LicensePlate); err == nil {
		span.SetStatus(codes.Error, "plate already registered")
		return dto.BusResponse{}, ErrPlateTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		span.RecordError(err)
		return dto.BusResponse{}, err
	}

	bus := models.Bus{
		ID:           uuid.NewString(),
		LicensePlate: req.LicensePlate,
		Capacity:     req.Capacity,
		Active:       true,
		CreatedAt:    s.now().UnixMilli(),
	}

	if err := s.repo.Insert(ctx, bus); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return dto.BusResponse{}, err
	}

	s.recorder.Record(ctx, ActivityEntry{
		UserID:   actorID,
		Category: models.CategoryBusRegistered,
		Detail:   fmt.Sprintf("bus with plate %s registered", bus.LicensePlate),
		Origin:   origin,
	})

	return dto.NewBusResponse(bus), nil
}

func (s *busService) List(ctx context.Context) ([]dto.BusResponse, error) {
	buses, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.BusResponse, 0, len(buses))
	for _, bus := range buses {
		responses = append(responses, dto.NewBusResponse(bus))
	}
	return responses, nil
}

func (s *busService) Get(ctx context.Context, id string) (dto.BusResponse, error) {
	bus, err := s.activeBus(ctx, id)
	if err != nil {
		return dto.BusResponse{}, err
	}
	return dto.NewBusResponse(bus), nil
}

func (s *busService) Update(ctx context.Context, id string, req dto.UpdateBusRequest, actorID, origin string) (dto.BusResponse, error) {
	ctx, span := s.tracer.Start(ctx, "bus.update")
	defer span.End()
	span.SetAttributes(attribute.String("bus.id", id))

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "validation failed")
		return dto.BusResponse{}, err
	}
	if req.Empty() {
		span.SetStatus(codes.Error, "empty update")
		return dto.BusResponse{}, ErrNoUpdateFields
	}

	bus, err := s.activeBus(ctx, id)
	if err != nil {
		return dto.BusResponse{}, err
	}

	if req.LicensePlate != nil && *req.LicensePlate != bus.LicensePlate {
		ownerID, err := s.repo.FindIDByPlate(ctx, *req.LicensePlate)
		if err == nil && ownerID != id {
			return dto.BusResponse{}, ErrPlateTaken
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return dto.BusResponse{}, err
		}
		bus.LicensePlate = *req.LicensePlate
	}
	if req.Capacity != nil {
		bus.Capacity = *req.Capacity
	}

	updatedAt := s.now().UnixMilli()
	bus.UpdatedAt = &updatedAt

	if err := s.repo.Update(ctx, bus); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return dto.BusResponse{}, err
	}

	s.recorder.Record(ctx, ActivityEntry{
		UserID:   actorID,
		Category: models.CategoryBusUpdated,
		Detail:   fmt.Sprintf("bus %s with plate %s updated", id, bus.LicensePlate),
		Origin:   origin,
	})

	return dto.NewBusResponse(bus), nil
}

func (s *busService) Delete(ctx context.Context, id, actorID, origin string) error {
	ctx, span := s.tracer.Start(ctx, "bus.delete")
	defer span.End()
	span.SetAttributes(attribute.String("bus.id", id))

	bus, err := s.activeBus(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Deactivate(ctx, id, s.now().UnixMilli()); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "deactivate failed")
		return err
	}

	s.recorder.Record(ctx, ActivityEntry{
		UserID:   actorID,
		Category: models.CategoryBusDeleted,
		Detail:   fmt.Sprintf("bus %s with plate %s deleted", id, bus.LicensePlate),
		Origin:   origin,
	})

	return nil
}

func (s *busService) activeBus(ctx context.Context, id string) (models.Bus, error) {
	bus, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Bus{}, err
	}
	if !bus.Active {
		return models.Bus{}, repository.ErrNotFound
	}
	return bus, nil
}
