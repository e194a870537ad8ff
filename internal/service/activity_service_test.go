package service

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/norte-express/fleet-api/internal/models"
	"github.com/norte-express/fleet-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// memoryActivityRepo stores records in memory; failErr makes every command
// fail.
type memoryActivityRepo struct {
	mu      sync.Mutex
	records []models.ActivityRecord
	failErr error
}

func (m *memoryActivityRepo) Insert(_ context.Context, record models.ActivityRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.records = append(m.records, record)
	return nil
}

func (m *memoryActivityRepo) List(_ context.Context) ([]models.ActivityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return nil, m.failErr
	}
	return append([]models.ActivityRecord(nil), m.records...), nil
}

func (m *memoryActivityRepo) FindByID(_ context.Context, id string) (models.ActivityRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return models.ActivityRecord{}, m.failErr
	}
	for _, record := range m.records {
		if record.ID == id {
			return record, nil
		}
	}
	return models.ActivityRecord{}, repository.ErrNotFound
}

func TestActivityAppendStoresNormalizedRecord(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, testLogger())

	got, err := svc.Append(context.Background(), ActivityEntry{
		UserID:   "u1",
		Category: models.CategoryLogin,
		Detail:   "ok",
		Origin:   "::1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, got.ID)
	require.NotZero(t, got.CreatedAt)
	require.NotNil(t, got.IP)
	require.Equal(t, "127.0.0.1", *got.IP)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, got, all[0])
}

func TestActivityAppendPassesPublicAddressThrough(t *testing.T) {
	svc := NewActivityService(&memoryActivityRepo{}, testLogger())

	got, err := svc.Append(context.Background(), ActivityEntry{
		UserID:   "u1",
		Category: models.CategoryLogin,
		Detail:   "ok",
		Origin:   "203.0.113.5",
	})
	require.NoError(t, err)
	require.NotNil(t, got.IP)
	require.Equal(t, "203.0.113.5", *got.IP)
}

func TestActivityAppendAbsentOriginStaysAbsent(t *testing.T) {
	svc := NewActivityService(&memoryActivityRepo{}, testLogger())

	got, err := svc.Append(context.Background(), ActivityEntry{
		UserID:   "u1",
		Category: models.CategoryUserCreated,
		Detail:   "client account created",
	})
	require.NoError(t, err)
	require.Nil(t, got.IP)
}

func TestActivityAppendRejectsInvalidInput(t *testing.T) {
	svc := NewActivityService(&memoryActivityRepo{}, testLogger())

	cases := []ActivityEntry{
		{Category: models.CategoryLogin, Detail: "ok"},
		{UserID: "u1", Detail: "ok"},
		{UserID: "u1", Category: models.CategoryLogin},
		{UserID: "u1", Category: models.CategoryLogin, Detail: "ok", Origin: "not-an-address"},
	}
	for _, entry := range cases {
		_, err := svc.Append(context.Background(), entry)
		require.ErrorIs(t, err, ErrValidation)
	}
}

func TestActivityAppendGeneratesUniqueIDs(t *testing.T) {
	svc := NewActivityService(&memoryActivityRepo{}, testLogger())
	entry := ActivityEntry{UserID: "u1", Category: models.CategoryLogin, Detail: "ok"}

	first, err := svc.Append(context.Background(), entry)
	require.NoError(t, err)
	second, err := svc.Append(context.Background(), entry)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)
}

func TestActivityAppendThenGetByID(t *testing.T) {
	svc := NewActivityService(&memoryActivityRepo{}, testLogger())

	appended, err := svc.Append(context.Background(), ActivityEntry{
		UserID:   "u1",
		Category: models.CategoryPasswordUpdated,
		Detail:   "password of user u1 updated",
		Origin:   "203.0.113.5",
	})
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), appended.ID)
	require.NoError(t, err)
	require.Equal(t, appended, got)
}

func TestActivityGetByIDNotFound(t *testing.T) {
	svc := NewActivityService(&memoryActivityRepo{}, testLogger())

	_, err := svc.GetByID(context.Background(), "nonexistent")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestActivityConcurrentAppendsAllVisible(t *testing.T) {
	svc := NewActivityService(&memoryActivityRepo{}, testLogger())

	var wg sync.WaitGroup
	actors := []string{"u1", "u2"}
	errs := make(chan error, len(actors))
	for _, actor := range actors {
		wg.Add(1)
		go func(actor string) {
			defer wg.Done()
			_, err := svc.Append(context.Background(), ActivityEntry{
				UserID:   actor,
				Category: models.CategoryLogin,
				Detail:   "ok",
			})
			errs <- err
		}(actor)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	seen := map[string]bool{}
	for _, record := range all {
		seen[record.UserID] = true
	}
	require.True(t, seen["u1"])
	require.True(t, seen["u2"])
}
