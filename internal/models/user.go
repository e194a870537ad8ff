package models

// User types stored in the userType attribute.
const (
	UserTypeAdmin  = "admin"
	UserTypeClient = "client"
)

// Document types accepted for user identification.
const (
	DocumentTypeDNI      = "DNI"
	DocumentTypeRUC      = "RUC"
	DocumentTypePassport = "PASSPORT"
)

// User is a registered account. Active=false marks a soft-deleted user; the
// record itself is never removed. Timestamps are epoch milliseconds.
type User struct {
	ID                string  `dynamodbav:"primaryKey" json:"id"`
	FirstName         string  `dynamodbav:"firstName" json:"first_name"`
	LastName          string  `dynamodbav:"lastName" json:"last_name"`
	DocumentType      string  `dynamodbav:"documentType" json:"document_type"`
	DocumentNumber    string  `dynamodbav:"documentNumber" json:"document_number"`
	PhoneNumber       string  `dynamodbav:"phoneNumber" json:"phone_number"`
	Email             string  `dynamodbav:"email" json:"email"`
	ProfilePictureURL *string `dynamodbav:"profilePictureUrl,omitempty" json:"profile_picture_url"`
	Password          string  `dynamodbav:"password" json:"-"`
	UserType          string  `dynamodbav:"userType" json:"user_type"`
	Active            bool    `dynamodbav:"estado" json:"active"`
	CreatedAt         int64   `dynamodbav:"createdAt" json:"created_at"`
	UpdatedAt         *int64  `dynamodbav:"updatedAt,omitempty" json:"updated_at"`
}
