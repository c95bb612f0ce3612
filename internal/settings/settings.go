// Package settings provides the key/value settings store that holds, among
// other things, the push gateway configuration.
package settings

import (
	"context"
	"errors"

	"github.com/chargeminder/chargeminder/internal/domain"
)

// Repository errors.
var (
	ErrNotFound   = errors.New("setting not found")
	ErrInvalidKey = errors.New("setting key must not be empty")
)

// Secret setting keys whose values are redacted in API responses and logs.
var secretKeys = map[string]bool{
	"ntfy_token":         true,
	"notification_token": true,
}

// IsSecret reports whether a setting key holds a credential.
func IsSecret(key string) bool {
	return secretKeys[key]
}

// Repository defines settings storage operations.
type Repository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	List(ctx context.Context) ([]domain.Setting, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Service provides settings business logic.
type Service struct {
	repo Repository
}

// NewService creates a new settings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetAll returns all settings as a key/value map.
func (s *Service) GetAll(ctx context.Context) (map[string]string, error) {
	return s.repo.GetAll(ctx)
}

// List returns all settings as rows.
func (s *Service) List(ctx context.Context) ([]domain.Setting, error) {
	return s.repo.List(ctx)
}

// Set stores or replaces a setting.
func (s *Service) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}
	return s.repo.Set(ctx, key, value)
}

// Delete removes a setting.
func (s *Service) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}
