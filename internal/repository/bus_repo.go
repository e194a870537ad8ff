package repository

import (
	"context"
	"fmt"

	"github.com/norte-express/fleet-api/internal/dynamo"
	"github.com/norte-express/fleet-api/internal/models"
)

// BusRepository persists fleet vehicles.
type BusRepository interface {
	Insert(ctx context.Context, bus models.Bus) error
	List(ctx context.Context) ([]models.Bus, error)
	FindByID(ctx context.Context, id string) (models.Bus, error)
	FindIDByPlate(ctx context.Context, plate string) (string, error)
	Update(ctx context.Context, bus models.Bus) error
	Deactivate(ctx context.Context, id string, updatedAt int64) error
}

type busRepository struct {
	gateway dynamo.Gateway
	table   string
}

// NewBusRepository constructs the bus repository.
func NewBusRepository(gateway dynamo.Gateway, table string) BusRepository {
	return &busRepository{gateway: gateway, table: table}
}

func (r *busRepository) Insert(ctx context.Context, bus models.Bus) error {
	item, err := dynamo.MarshalItem(bus)
	if err != nil {
		return fmt.Errorf("marshal bus: %w", err)
	}

	if err := r.gateway.Put(ctx, r.table, item); err != nil {
		return storageErr(err)
	}
	return nil
}

func (r *busRepository) List(ctx context.Context) ([]models.Bus, error) {
	items, err := r.gateway.Scan(ctx, r.table, dynamo.ScanOptions{
		FilterExpression: "estado = :estado",
		ExpressionValues: dynamo.Item{
			":estado": dynamo.Bool(true),
		},
	})
	if err != nil {
		return nil, storageErr(err)
	}

	buses := make([]models.Bus, 0, len(items))
	for _, item := range items {
		buses = append(buses, decodeBus(item))
	}
	return buses, nil
}

func (r *busRepository) FindByID(ctx context.Context, id string) (models.Bus, error) {
	item, err := r.gateway.Get(ctx, r.table, dynamo.Key("primaryKey", id))
	if err != nil {
		return models.Bus{}, storageErr(err)
	}
	if item == nil {
		return models.Bus{}, ErrNotFound
	}
	return decodeBus(item), nil
}

// FindIDByPlate resolves a bus id through the licensePlate-index GSI.
func (r *busRepository) FindIDByPlate(ctx context.Context, plate string) (string, error) {
	items, err := r.gateway.Query(ctx, r.table, dynamo.QueryOptions{
		IndexName:              "licensePlate-index",
		KeyConditionExpression: "licensePlate = :plate",
		ExpressionValues: dynamo.Item{
			":plate": dynamo.String(plate),
		},
	})
	if err != nil {
		return "", storageErr(err)
	}
	if len(items) == 0 {
		return "", ErrNotFound
	}

	id := dynamo.StringAttr(items[0], "primaryKey")
	if id == nil {
		return "", ErrNotFound
	}
	return *id, nil
}

func (r *busRepository) Update(ctx context.Context, bus models.Bus) error {
	updatedAt := int64(0)
	if bus.UpdatedAt != nil {
		updatedAt = *bus.UpdatedAt
	}

	err := r.gateway.Update(ctx, r.table, dynamo.Key("primaryKey", bus.ID), dynamo.UpdateOptions{
		UpdateExpression: "SET licensePlate = :licensePlate, capacity = :capacity, updatedAt = :updatedAt",
		ExpressionValues: dynamo.Item{
			":licensePlate": dynamo.String(bus.LicensePlate),
			":capacity":     dynamo.Number(int64(bus.Capacity)),
			":updatedAt":    dynamo.Number(updatedAt),
		},
	})
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// Deactivate soft-deletes the bus; the record stays in the table.
func (r *busRepository) Deactivate(ctx context.Context, id string, updatedAt int64) error {
	err := r.gateway.Update(ctx, r.table, dynamo.Key("primaryKey", id), dynamo.UpdateOptions{
		UpdateExpression: "SET estado = :estado, updatedAt = :updatedAt",
		ExpressionValues: dynamo.Item{
			":estado":    dynamo.Bool(false),
			":updatedAt": dynamo.Number(updatedAt),
		},
	})
	if err != nil {
		return storageErr(err)
	}
	return nil
}

func decodeBus(item dynamo.Item) models.Bus {
	var bus models.Bus
	if v := dynamo.StringAttr(item, "primaryKey"); v != nil {
		bus.ID = *v
	}
	if v := dynamo.StringAttr(item, "licensePlate"); v != nil {
		bus.LicensePlate = *v
	}
	if v := dynamo.NumberAttr(item, "capacity"); v != nil {
		bus.Capacity = int(*v)
	}
	if v := dynamo.BoolAttr(item, "estado"); v != nil {
		bus.Active = *v
	}
	if v := dynamo.NumberAttr(item, "createdAt"); v != nil {
		bus.CreatedAt = *v
	}
	bus.UpdatedAt = dynamo.NumberAttr(item, "updatedAt")
	return bus
}
