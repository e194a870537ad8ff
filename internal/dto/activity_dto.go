package dto

import (
	"github.com/norte-express/fleet-api/internal/models"
)

// ActivityResponse serializes an audit entry. Category and IP are pointers
// because historical records written under earlier schema versions may lack
// them; absent fields surface as null rather than failing the read.
type ActivityResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Category  *string `json:"category"`
	Detail    string  `json:"detail"`
	IP        *string `json:"ip"`
	CreatedAt int64   `json:"created_at"`
}

// NewActivityResponse converts an activity record into a DTO.
func NewActivityResponse(record models.ActivityRecord) ActivityResponse {
	var category *string
	if record.Category != "" {
		c := string(record.Category)
		category = &c
	}

	return ActivityResponse{
		ID:        record.ID,
		UserID:    record.UserID,
		Category:  category,
		Detail:    record.Detail,
		IP:        record.IP,
		CreatedAt: record.CreatedAt,
	}
}
