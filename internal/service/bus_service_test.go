package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/norte-express/fleet-api/internal/dto"
	"github.com/norte-express/fleet-api/internal/models"
	"github.com/norte-express/fleet-api/internal/repository"
)

type memoryBusRepo struct {
	buses map[string]models.Bus
}

func newMemoryBusRepo() *memoryBusRepo {
	return &memoryBusRepo{buses: map[string]models.Bus{}}
}

func (m *memoryBusRepo) Insert(_ context.Context, bus models.Bus) error {
	m.buses[bus.ID] = bus
	return nil
}

func (m *memoryBusRepo) List(_ context.Context) ([]models.Bus, error) {
	var buses []models.Bus
	for _, bus := range m.buses {
		if bus.Active {
			buses = append(buses, bus)
		}
	}
	return buses, nil
}

func (m *memoryBusRepo) FindByID(_ context.Context, id string) (models.Bus, error) {
	bus, ok := m.buses[id]
	if !ok {
		return models.Bus{}, repository.ErrNotFound
	}
	return bus, nil
}

func (m *memoryBusRepo) FindIDByPlate(_ context.Context, plate string) (string, error) {
	for _, bus := range m.buses {
		if bus.LicensePlate == plate {
			return bus.ID, nil
		}
	}
	return "", repository.ErrNotFound
}

func (m *memoryBusRepo) Update(_ context.Context, bus models.Bus) error {
	stored, ok := m.buses[bus.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.LicensePlate = bus.LicensePlate
	stored.Capacity = bus.Capacity
	stored.UpdatedAt = bus.UpdatedAt
	m.buses[bus.ID] = stored
	return nil
}

func (m *memoryBusRepo) Deactivate(_ context.Context, id string, updatedAt int64) error {
	bus, ok := m.buses[id]
	if !ok {
		return repository.ErrNotFound
	}
	bus.Active = false
	bus.UpdatedAt = &updatedAt
	m.buses[id] = bus
	return nil
}

func testBusService(t *testing.T, repo repository.BusRepository, recorder ActivityRecorder) BusService {
	t.Helper()
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewBusService(repo, recorder, validate, testLogger())
}

func TestBusRegisterRecordsActivity(t *testing.T) {
	repo := newMemoryBusRepo()
	recorder := &captureRecorder{}
	svc := testBusService(t, repo, recorder)

	got, err := svc.Register(context.Background(), dto.CreateBusRequest{
		LicensePlate: "ABC-123",
		Capacity:     40,
	}, "admin-1", "203.0.113.5")
	require.NoError(t, err)
	require.NotEmpty(t, got.ID)
	require.Equal(t, "ABC-123", got.LicensePlate)

	require.Len(t, recorder.entries, 1)
	require.Equal(t, models.CategoryBusRegistered, recorder.entries[0].Category)
	require.Equal(t, "admin-1", recorder.entries[0].UserID)
	require.Contains(t, recorder.entries[0].Detail, "ABC-123")
}

func TestBusRegisterRejectsDuplicatePlate(t *testing.T) {
	repo := newMemoryBusRepo()
	repo.buses["b1"] = models.Bus{ID: "b1", LicensePlate: "ABC-123", Capacity: 40, Active: true}
	svc := testBusService(t, repo, &captureRecorder{})

	_, err := svc.Register(context.Background(), dto.CreateBusRequest{LicensePlate: "ABC-123", Capacity: 30}, "admin-1", "")
	require.ErrorIs(t, err, ErrPlateTaken)
}

func TestBusUpdateRequiresFields(t *testing.T) {
	repo := newMemoryBusRepo()
	repo.buses["b1"] = models.Bus{ID: "b1", LicensePlate: "ABC-123", Capacity: 40, Active: true}
	svc := testBusService(t, repo, &captureRecorder{})

	_, err := svc.Update(context.Background(), "b1", dto.UpdateBusRequest{}, "admin-1", "")
	require.ErrorIs(t, err, ErrNoUpdateFields)
}

func TestBusUpdateChangesCapacityAndRecordsActivity(t *testing.T) {
	repo := newMemoryBusRepo()
	repo.buses["b1"] = models.Bus{ID: "b1", LicensePlate: "ABC-123", Capacity: 40, Active: true}
	recorder := &captureRecorder{}
	svc := testBusService(t, repo, recorder)

	capacity := 48
	got, err := svc.Update(context.Background(), "b1", dto.UpdateBusRequest{Capacity: &capacity}, "admin-1", "")
	require.NoError(t, err)
	require.Equal(t, 48, got.Capacity)
	require.NotNil(t, got.UpdatedAt)

	require.Len(t, recorder.entries, 1)
	require.Equal(t, models.CategoryBusUpdated, recorder.entries[0].Category)
}

func TestBusDeleteSoftDeletesAndRecordsActivity(t *testing.T) {
	repo := newMemoryBusRepo()
	repo.buses["b1"] = models.Bus{ID: "b1", LicensePlate: "ABC-123", Capacity: 40, Active: true}
	recorder := &captureRecorder{}
	svc := testBusService(t, repo, recorder)

	require.NoError(t, svc.Delete(context.Background(), "b1", "admin-1", "::1"))
	require.False(t, repo.buses["b1"].Active)

	require.Len(t, recorder.entries, 1)
	require.Equal(t, models.CategoryBusDeleted, recorder.entries[0].Category)
	require.Equal(t, "::1", recorder.entries[0].Origin)

	_, err := svc.Get(context.Background(), "b1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
