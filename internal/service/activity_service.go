package service

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
	"time"

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

// ActivityEntry captures the details required to persist an audit entry.
// Origin is the network address the triggering request arrived from; callers
// derive it explicitly from their own transport and may leave it empty when
// genuinely unknown, in which case the record stores no address at all.
type ActivityEntry struct {
	UserID   string
	Category models.Category
	Detail   string
	Origin   string
}

// ActivityRecorder is the contract actor services depend on to log audited
// events. Recording is best-effort: implementations must never let an audit
// fault reach the primary operation being audited.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry)
}

// ActivityService owns the append-only activity log.
type ActivityService interface {
	Append(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error)
	ListAll(ctx context.Context) ([]dto.ActivityResponse, error)
	GetByID(ctx context.Context, id string) (dto.ActivityResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
		tracer: otel.Tracer("github.com/norte-express/fleet-api/internal/service/activity"),
		now:    time.Now,
	}
}

// Append persists a new immutable record. The id is freshly generated and
// createdAt is stamped here; callers never supply either. Every call creates
// a new record even when the logical content repeats.
func (s *activityService) Append(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	ctx, span := s.tracer.Start(ctx, "activity.append")
	defer span.End()
	span.SetAttributes(attribute.String("activity.category", string(entry.Category)))

	if strings.TrimSpace(entry.UserID) == "" {
		span.SetStatus(codes.Error, "validation failed")
		return dto.ActivityResponse{}, fmt.Errorf("%w: user id is required", ErrValidation)
	}
	if strings.TrimSpace(string(entry.Category)) == "" {
		span.SetStatus(codes.Error, "validation failed")
		return dto.ActivityResponse{}, fmt.Errorf("%w: category is required", ErrValidation)
	}
	if strings.TrimSpace(entry.Detail) == "" {
		span.SetStatus(codes.Error, "validation failed")
		return dto.ActivityResponse{}, fmt.Errorf("%w: detail is required", ErrValidation)
	}

	record := models.ActivityRecord{
		ID:        uuid.NewString(),
		UserID:    entry.UserID,
		Category:  entry.Category,
		Detail:    entry.Detail,
		CreatedAt: s.now().UnixMilli(),
	}

	if entry.Origin != "" {
		origin, err := normalizeOrigin(entry.Origin)
		if err != nil {
			span.SetStatus(codes.Error, "validation failed")
			return dto.ActivityResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		record.IP = &origin
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		s.logger.Error().Err(err).Str("category", string(entry.Category)).Msg("failed to persist activity record")
		return dto.ActivityResponse{}, err
	}

	return dto.NewActivityResponse(record), nil
}

// ListAll returns every record in the log. The result is unordered; createdAt
// values are advisory and do not define a total order under concurrency.
func (s *activityService) ListAll(ctx context.Context) ([]dto.ActivityResponse, error) {
	ctx, span := s.tracer.Start(ctx, "activity.list_all")
	defer span.End()

	records, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")
		return nil, err
	}

	responses := make([]dto.ActivityResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, dto.NewActivityResponse(record))
	}
	return responses, nil
}

func (s *activityService) GetByID(ctx context.Context, id string) (dto.ActivityResponse, error) {
	ctx, span := s.tracer.Start(ctx, "activity.get_by_id")
	defer span.End()
	span.SetAttributes(attribute.String("activity.id", id))

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return dto.ActivityResponse{}, err
	}
	return dto.NewActivityResponse(record), nil
}

// normalizeOrigin validates the address and rewrites the IPv6 loopback to its
// IPv4 equivalent; any other address passes through unchanged.
func normalizeOrigin(origin string) (string, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(origin))
	if err != nil {
		return "", fmt.Errorf("invalid origin address %q", origin)
	}
	if addr.Is6() && addr.IsLoopback() {
		return "127.0.0.1", nil
	}
	return strings.TrimSpace(origin), nil
}
