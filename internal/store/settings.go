package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/narratif/studio/internal/models"
)

const apiSettingsKey = "narratifApiSettings"

// SettingsStore persists the provider settings under their own key.
type SettingsStore struct {
	kv     KV
	logger *zap.Logger
}

func NewSettingsStore(kv KV, logger *zap.Logger) *SettingsStore {
	return &SettingsStore{kv: kv, logger: logger}
}

// Get returns the persisted settings, or defaults when the entry is
// missing or corrupt.
func (s *SettingsStore) Get(ctx context.Context) models.ProviderSettings {
	data, err := s.kv.Get(ctx, apiSettingsKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("Failed to load provider settings", zap.Error(err))
		}
		return models.DefaultProviderSettings()
	}

	var settings models.ProviderSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		s.logger.Warn("Corrupt provider settings, using defaults", zap.Error(err))
		return models.DefaultProviderSettings()
	}
	if settings.Provider == "" {
		settings.Provider = models.ProviderGemini
	}
	return settings
}

// Put persists the settings.
func (s *SettingsStore) Put(ctx context.Context, settings models.ProviderSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal provider settings: %w", err)
	}
	if err := s.kv.Set(ctx, apiSettingsKey, data); err != nil {
		return fmt.Errorf("failed to persist provider settings: %w", err)
	}
	return nil
}
