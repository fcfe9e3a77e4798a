package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole represents the role of a user in the system
type UserRole int

// User role constants
const (
	// UserRoleUser represents a standard user
	UserRoleUser UserRole = iota
	// UserRoleAdmin represents an administrator user
	UserRoleAdmin
)

func (r UserRole) String() string {
	return []string{
		"USER",
		"ADMIN",
	}[r]
}

// ParseUserRole converts a string representation of a user role to UserRole type
func ParseUserRole(str string) (UserRole, error) {
	for i, role := range []string{
		"USER",
		"ADMIN",
	} {
		if role == str {
			return UserRole(i), nil
		}
	}
	return UserRoleUser, fmt.Errorf("invalid user role: %s", str)
}

// MarshalJSON implements the json.Marshaler interface for UserRole
func (r UserRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface for UserRole
func (r *UserRole) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	role, err := ParseUserRole(str)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// User represents a registered exchange user
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Role      UserRole  `json:"role" gorm:"index"`
	APIKey    string    `json:"api_key" gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID and API key before the row is inserted
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.APIKey == "" {
		u.APIKey = NewAPIKey()
	}
	return nil
}

// NewAPIKey generates a fresh API key
func NewAPIKey() string {
	return fmt.Sprintf("key-%s", uuid.New())
}
