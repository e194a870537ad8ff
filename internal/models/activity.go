package models

// Category classifies an audited action. The stored values are stable
// serialization strings; historical records may carry free-form text written
// before the vocabulary was closed.
type Category string

const (
	CategoryUserCreated     Category = "USER_CREATED"
	CategoryUserUpdated     Category = "USER_UPDATED"
	CategoryPasswordUpdated Category = "PASSWORD_UPDATED"
	CategoryLogin           Category = "LOGIN"
	CategoryUserDeleted     Category = "USER_DELETED"
	CategoryBusRegistered   Category = "BUS_REGISTERED"
	CategoryBusUpdated      Category = "BUS_UPDATED"
	CategoryBusDeleted      Category = "BUS_DELETED"
)

// ActivityRecord is an immutable audit entry: who did what, when, and from
// where. Records are created once and never updated or deleted.
//
// CreatedAt is advisory: it is stamped independently by each append and is
// not a reliable ordering token under concurrent writes.
type ActivityRecord struct {
	ID        string   `dynamodbav:"primaryKey" json:"id"`
	UserID    string   `dynamodbav:"userId" json:"user_id"`
	Category  Category `dynamodbav:"activityType" json:"category"`
	Detail    string   `dynamodbav:"detail" json:"detail"`
	IP        *string  `dynamodbav:"ip,omitempty" json:"ip"`
	CreatedAt int64    `dynamodbav:"createdAt" json:"created_at"`
}
