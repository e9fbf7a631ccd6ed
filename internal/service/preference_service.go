package service

import (
	"context"
	"fmt"

	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/api/request"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/apperrors"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/model"
	"github.com/ndewijer/Crypto-Dashboard-Backend/internal/validation"
)

const themeKey = "theme"

// PreferenceService persists UI preferences in the key-value store.
type PreferenceService struct {
	kv KeyValueStore
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(kv KeyValueStore) *PreferenceService {
	return &PreferenceService{kv: kv}
}

// Theme returns the stored theme, or light when none is stored or the stored value is unknown.
func (s *PreferenceService) Theme(ctx context.Context) (model.Theme, error) {
	value, ok, err := s.kv.Get(ctx, themeKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieve, err)
	}
	theme := model.Theme(value)
	if !ok || !theme.Valid() {
		return model.ThemeLight, nil
	}
	return theme, nil
}

// SetTheme validates and stores the theme.
func (s *PreferenceService) SetTheme(ctx context.Context, req request.ThemeRequest) (model.Theme, error) {
	if err := validation.ValidateTheme(req); err != nil {
		return "", err
	}
	theme := model.Theme(req.Theme)
	if err := s.kv.Set(ctx, themeKey, string(theme)); err != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrFailedToPersist, err)
	}
	return theme, nil
}
