//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxRestaurantNameLen = 255
	maxSlugLen           = 64
)

// slugPattern matches URL-safe restaurant slugs: lowercase alphanumerics and hyphens,
// starting and ending with an alphanumeric.
var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// Restaurant is the tenant entity. Every other CRM entity is scoped to one.
type Restaurant struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Slug      string    `json:"slug"       db:"slug"`
	Active    bool      `json:"active"     db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Membership relates a user to a restaurant with a role.
type Membership struct {
	UserID       string    `json:"user_id"       db:"user_id"`
	RestaurantID string    `json:"restaurant_id" db:"restaurant_id"`
	Role         string    `json:"role"          db:"role"`
	CreatedAt    time.Time `json:"created_at"    db:"created_at"`
}

// CreateRestaurantRequest represents parameters to create a Restaurant.
type CreateRestaurantRequest struct {
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Active *bool  `json:"active,omitempty"`
}

// UpdateRestaurantRequest represents parameters to update a Restaurant.
type UpdateRestaurantRequest struct {
	Name   *string `json:"name,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// ValidSlug reports whether s is a well-formed restaurant slug.
func ValidSlug(s string) bool {
	return s != "" && len(s) <= maxSlugLen && slugPattern.MatchString(s)
}

// Validate validates CreateRestaurantRequest.
func (r *CreateRestaurantRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxRestaurantNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	r.Slug = strings.ToLower(strings.TrimSpace(r.Slug))
	if !ValidSlug(r.Slug) {
		return errors.New("slug must be lowercase alphanumerics and hyphens")
	}
	return nil
}

// HasUpdates reports whether any field is set in UpdateRestaurantRequest.
func (r *UpdateRestaurantRequest) HasUpdates() bool {
	return r.Name != nil || r.Active != nil
}
