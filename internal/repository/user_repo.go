package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/norte-express/fleet-api/internal/dynamo"
	"github.com/norte-express/fleet-api/internal/models"
)

const userProjection = "primaryKey, firstName, lastName, documentType, documentNumber, phoneNumber, email, profilePictureUrl, userType, createdAt, updatedAt, estado"

// Credentials is the minimal projection used to verify a password without
// pulling the full profile.
type Credentials struct {
	PasswordHash string
	Active       bool
}

// UserRepository persists user accounts.
type UserRepository interface {
	Insert(ctx context.Context, user models.User) error
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	FindIDByEmail(ctx context.Context, email string) (string, error)
	Credentials(ctx context.Context, id string) (Credentials, error)
	UpdateProfile(ctx context.Context, user models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt int64) error
	Deactivate(ctx context.Context, id string, updatedAt int64) error
}

type userRepository struct {
	gateway dynamo.Gateway
	table   string
}

// NewUserRepository constructs the user repository.
func NewUserRepository(gateway dynamo.Gateway, table string) UserRepository {
	return &userRepository{gateway: gateway, table: table}
}

func (r *userRepository) Insert(ctx context.Context, user models.User) error {
	item, err := dynamo.MarshalItem(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	if err := r.gateway.Put(ctx, r.table, item); err != nil {
		return storageErr(err)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	items, err := r.gateway.Scan(ctx, r.table, dynamo.ScanOptions{
		FilterExpression:     "estado = :estado",
		ProjectionExpression: userProjection,
		ExpressionValues: dynamo.Item{
			":estado": dynamo.Bool(true),
		},
	})
	if err != nil {
		return nil, storageErr(err)
	}

	users := make([]models.User, 0, len(items))
	for _, item := range items {
		users = append(users, decodeUser(item))
	}
	return users, nil
}

func (r *userRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	item, err := r.gateway.Get(ctx, r.table, dynamo.Key("primaryKey", id))
	if err != nil {
		return models.User{}, storageErr(err)
	}
	if item == nil {
		return models.User{}, ErrNotFound
	}
	return decodeUser(item), nil
}

// FindIDByEmail resolves a user id through the email-index GSI.
func (r *userRepository) FindIDByEmail(ctx context.Context, email string) (string, error) {
	items, err := r.gateway.Query(ctx, r.table, dynamo.QueryOptions{
		IndexName:              "email-index",
		KeyConditionExpression: "email = :email",
		ExpressionValues: dynamo.Item{
			":email": dynamo.String(email),
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

func (r *userRepository) Credentials(ctx context.Context, id string) (Credentials, error) {
	items, err := r.gateway.Query(ctx, r.table, dynamo.QueryOptions{
		KeyConditionExpression: "primaryKey = :id",
		FilterExpression:       "estado = :estado",
		ProjectionExpression:   "password, estado",
		ExpressionValues: dynamo.Item{
			":id":     dynamo.String(id),
			":estado": dynamo.Bool(true),
		},
	})
	if err != nil {
		return Credentials{}, storageErr(err)
	}
	if len(items) == 0 {
		return Credentials{}, ErrNotFound
	}

	creds := Credentials{}
	if v := dynamo.StringAttr(items[0], "password"); v != nil {
		creds.PasswordHash = *v
	}
	if v := dynamo.BoolAttr(items[0], "estado"); v != nil {
		creds.Active = *v
	}
	return creds, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, user models.User) error {
	profilePicture := ""
	if user.ProfilePictureURL != nil {
		profilePicture = *user.ProfilePictureURL
	}
	updatedAt := time.Now().UnixMilli()
	if user.UpdatedAt != nil {
		updatedAt = *user.UpdatedAt
	}

	err := r.gateway.Update(ctx, r.table, dynamo.Key("primaryKey", user.ID), dynamo.UpdateOptions{
		UpdateExpression: "SET email = :email, documentType = :documentType, documentNumber = :documentNumber, updatedAt = :updatedAt, firstName = :firstName, lastName = :lastName, phoneNumber = :phoneNumber, profilePictureUrl = :profilePictureUrl",
		ExpressionValues: dynamo.Item{
			":email":             dynamo.String(user.Email),
			":documentType":      dynamo.String(user.DocumentType),
			":documentNumber":    dynamo.String(user.DocumentNumber),
			":updatedAt":         dynamo.Number(updatedAt),
			":firstName":         dynamo.String(user.FirstName),
			":lastName":          dynamo.String(user.LastName),
			":phoneNumber":       dynamo.String(user.PhoneNumber),
			":profilePictureUrl": dynamo.String(profilePicture),
		},
	})
	if err != nil {
		return storageErr(err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt int64) error {
	err := r.gateway.Update(ctx, r.table, dynamo.Key("primaryKey", id), dynamo.UpdateOptions{
		UpdateExpression: "SET password = :password, updatedAt = :updatedAt",
		ExpressionValues: dynamo.Item{
			":password":  dynamo.String(passwordHash),
			":updatedAt": dynamo.Number(updatedAt),
		},
	})
	if err != nil {
		return storageErr(err)
	}
	return nil
}

// Deactivate soft-deletes the user; the record stays in the table.
func (r *userRepository) Deactivate(ctx context.Context, id string, updatedAt int64) error {
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

func decodeUser(item dynamo.Item) models.User {
	var user models.User
	if v := dynamo.StringAttr(item, "primaryKey"); v != nil {
		user.ID = *v
	}
	if v := dynamo.StringAttr(item, "firstName"); v != nil {
		user.FirstName = *v
	}
	if v := dynamo.StringAttr(item, "lastName"); v != nil {
		user.LastName = *v
	}
	if v := dynamo.StringAttr(item, "documentType"); v != nil {
		user.DocumentType = *v
	}
	if v := dynamo.StringAttr(item, "documentNumber"); v != nil {
		user.DocumentNumber = *v
	}
	if v := dynamo.StringAttr(item, "phoneNumber"); v != nil {
		user.PhoneNumber = *v
	}
	if v := dynamo.StringAttr(item, "email"); v != nil {
		user.Email = *v
	}
	user.ProfilePictureURL = dynamo.StringAttr(item, "profilePictureUrl")
	if v := dynamo.StringAttr(item, "userType"); v != nil {
		user.UserType = *v
	}
	if v := dynamo.BoolAttr(item, "estado"); v != nil {
		user.Active = *v
	}
	if v := dynamo.NumberAttr(item, "createdAt"); v != nil {
		user.CreatedAt = *v
	}
	user.UpdatedAt = dynamo.NumberAttr(item, "updatedAt")
	return user
}
