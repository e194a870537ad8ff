package repository

import (
	"context"
	"fmt"

	"github.com/norte-express/fleet-api/internal/dynamo"
	"github.com/norte-express/fleet-api/internal/models"
)

// ActivityLogRepository persists audit trail records. It is the only writer
// of the activities table; records are inserted once and never updated.
type ActivityLogRepository interface {
	Insert(ctx context.Context, record models.ActivityRecord) error
	List(ctx context.Context) ([]models.ActivityRecord, error)
	FindByID(ctx context.Context, id string) (models.ActivityRecord, error)
}

type activityLogRepository struct {
	gateway dynamo.Gateway
	table   string
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(gateway dynamo.Gateway, table string) ActivityLogRepository {
	return &activityLogRepository{gateway: gateway, table: table}
}

func (r *activityLogRepository) Insert(ctx context.Context, record models.ActivityRecord) error {
	item, err := dynamo.MarshalItem(record)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}

	if err := r.gateway.Put(ctx, r.table, item); err != nil {
		return storageErr(err)
	}
	return nil
}

// List returns every stored record. The scan imposes no order; insertion
// order is not preserved and callers must not assume chronology.
func (r *activityLogRepository) List(ctx context.Context) ([]models.ActivityRecord, error) {
	items, err := r.gateway.Scan(ctx, r.table, dynamo.ScanOptions{})
	if err != nil {
		return nil, storageErr(err)
	}

	records := make([]models.ActivityRecord, 0, len(items))
	for _, item := range items {
		records = append(records, decodeActivity(item))
	}
	return records, nil
}

func (r *activityLogRepository) FindByID(ctx context.Context, id string) (models.ActivityRecord, error) {
	item, err := r.gateway.Get(ctx, r.table, dynamo.Key("primaryKey", id))
	if err != nil {
		return models.ActivityRecord{}, storageErr(err)
	}
	if item == nil {
		return models.ActivityRecord{}, ErrNotFound
	}
	return decodeActivity(item), nil
}

// decodeActivity tolerates schema drift: activityType falls back to the
// legacy action attribute, and absent optional fields stay absent instead of
// failing the record.
func decodeActivity(item dynamo.Item) models.ActivityRecord {
	var record models.ActivityRecord
	if v := dynamo.StringAttr(item, "primaryKey"); v != nil {
		record.ID = *v
	}
	if v := dynamo.StringAttr(item, "userId"); v != nil {
		record.UserID = *v
	}
	if v := dynamo.StringAttr(item, "activityType", "action"); v != nil {
		record.Category = models.Category(*v)
	}
	if v := dynamo.StringAttr(item, "detail"); v != nil {
		record.Detail = *v
	}
	record.IP = dynamo.StringAttr(item, "ip")
	if v := dynamo.NumberAttr(item, "createdAt"); v != nil {
		record.CreatedAt = *v
	}
	return record
}
