package users

import "time"

// Role values accepted by the API.
const (
	RoleClient     = "client"
	RoleFreelancer = "freelancer"
)

// User is a marketplace account keyed by its wallet address.
type User struct {
	Address        string    `gorm:"primaryKey;size:128" json:"address"`
	Name           string    `gorm:"size:255" json:"name"`
	Email          string    `gorm:"size:255;index" json:"email"`
	WhatsappNumber string    `gorm:"size:32" json:"whatsappNumber"`
	Role           string    `gorm:"size:16;not null;default:client" json:"role"`
	IsVerified     bool      `gorm:"not null;default:false" json:"isVerified"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TableName pins the table name across drivers.
func (User) TableName() string { return "users" }

// requiredColumns are the columns handlers read and write.
var requiredColumns = []string{"address", "name", "email", "whatsapp_number", "role", "is_verified", "created_at", "updated_at"}

// RegisterRequest is the body of POST /api/users.
type RegisterRequest struct {
	Address        string `json:"address" validate:"required"`
	Name           string `json:"name"`
	Email          string `json:"email" validate:"omitempty,email"`
	WhatsappNumber string `json:"whatsappNumber"`
	Role           string `json:"role" validate:"omitempty,oneof=client freelancer"`
}

// UpdateRequest is the body of PUT /api/users/{address}. Absent fields are left
// unchanged.
type UpdateRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email" validate:"omitempty,email"`
	WhatsappNumber *string `json:"whatsappNumber"`
}
