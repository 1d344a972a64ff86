package model

import (
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minWebhookSinkNameLen = 3
	maxWebhookSinkNameLen = 255
	maxWebhookURLLen      = 1024
)

// WebhookSink is a restaurant-scoped HTTP endpoint notified on order events.
// Filter is an optional JMESPath expression evaluated against the event
// payload; a falsy result suppresses delivery. Selector is an optional
// JMESPath expression that, when set, replaces the delivered body with its
// evaluation result.
type WebhookSink struct {
	ID           string    `json:"id"                 db:"id"`
	RestaurantID string    `json:"restaurant_id"      db:"restaurant_id"`
	Name         string    `json:"name"               db:"name"`
	URL          string    `json:"url"                db:"url"`
	Secret       *string   `json:"secret,omitempty"   db:"secret"`
	Filter       *string   `json:"filter,omitempty"   db:"filter"`
	Selector     *string   `json:"selector,omitempty" db:"selector"`
	Enabled      bool      `json:"enabled"            db:"enabled"`
	CreatedAt    time.Time `json:"created_at"         db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"         db:"updated_at"`
}

// CreateWebhookSinkRequest represents parameters to create a WebhookSink.
type CreateWebhookSinkRequest struct {
	Name     string  `json:"name"`
	URL      string  `json:"url"`
	Secret   *string `json:"secret,omitempty"`
	Filter   *string `json:"filter,omitempty"`
	Selector *string `json:"selector,omitempty"`
	Enabled  *bool   `json:"enabled,omitempty"`
}

// UpdateWebhookSinkRequest represents parameters to update a WebhookSink.
type UpdateWebhookSinkRequest struct {
	Name     *string `json:"name,omitempty"`
	URL      *string `json:"url,omitempty"`
	Secret   *string `json:"secret,omitempty"`
	Filter   *string `json:"filter,omitempty"`
	Selector *string `json:"selector,omitempty"`
	Enabled  *bool   `json:"enabled,omitempty"`
}

// Normalize normalizes the CreateWebhookSinkRequest fields.
func (r *CreateWebhookSinkRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.URL = strings.TrimSpace(r.URL)
}

// Validate validates the CreateWebhookSinkRequest fields.
func (r *CreateWebhookSinkRequest) Validate() error {
	if err := validateWebhookSinkName(r.Name); err != nil {
		return err
	}
	return validateWebhookSinkURL(r.URL)
}

// HasUpdates reports whether any field is set in UpdateWebhookSinkRequest.
func (r *UpdateWebhookSinkRequest) HasUpdates() bool {
	return r.Name != nil || r.URL != nil || r.Secret != nil || r.Filter != nil ||
		r.Selector != nil || r.Enabled != nil
}

// Validate validates the UpdateWebhookSinkRequest fields and ensures at least one field is being updated.
func (r *UpdateWebhookSinkRequest) Validate() error {
	if !r.HasUpdates() {
		return errors.New("at least one field must be updated")
	}
	if r.Name != nil {
		if err := validateWebhookSinkName(strings.TrimSpace(*r.Name)); err != nil {
			return err
		}
	}
	if r.URL != nil {
		if err := validateWebhookSinkURL(strings.TrimSpace(*r.URL)); err != nil {
			return err
		}
	}
	return nil
}

func validateWebhookSinkName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < minWebhookSinkNameLen {
		return errors.New("name must be at least 3 characters")
	}
	if n > maxWebhookSinkNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	return nil
}

func validateWebhookSinkURL(raw string) error {
	if raw == "" {
		return errors.New("url is required")
	}
	if len(raw) > maxWebhookURLLen {
		return errors.New("url cannot exceed 1024 characters")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("url is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}
	if u.Host == "" {
		return errors.New("url must include a host")
	}
	return nil
}
