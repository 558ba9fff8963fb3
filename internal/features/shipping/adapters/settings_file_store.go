package adapter

import (
	"fmt"
	"sync"
	"sync/atomic"

	"shipping-distance/internal/core/apperr"
	"shipping-distance/internal/core/logger"
	"shipping-distance/internal/features/shipping/domain"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// SettingsFileStore implements the SettingsProvider interface over a YAML document on disk.
// Readers always see the last document that validated.
type SettingsFileStore struct {
	// mu serializes access to v, which is not safe for concurrent use.
	mu sync.Mutex
	v  *viper.Viper
	// current is swapped atomically on every successful load.
	current atomic.Pointer[domain.Settings]
	log     *zap.Logger
}

// NewSettingsFileStore loads the document at path. The store is not created
// when the first load fails.
func NewSettingsFileStore(path string) (*SettingsFileStore, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	s := &SettingsFileStore{
		v:   v,
		log: logger.Named("settings"),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current implements SettingsProvider.
func (s *SettingsFileStore) Current() *domain.Settings {
	return s.current.Load()
}

// Reload reads the document again. On failure the previous settings stay active.
func (s *SettingsFileStore) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.v.ReadInConfig(); err != nil {
		return apperr.Wrap(apperr.KindConfiguration, "failed to read shipping settings", err)
	}
	return s.apply()
}

// Watch reloads the document whenever it changes on disk.
func (s *SettingsFileStore) Watch() {
	s.v.OnConfigChange(func(e fsnotify.Event) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if err := s.apply(); err != nil {
			s.log.Error("Shipping settings reload rejected, keeping previous settings",
				zap.String("file", e.Name),
				zap.Error(err),
			)
		}
	})
	s.v.WatchConfig()
}

// apply decodes the document held by v and publishes it. Callers hold mu.
func (s *SettingsFileStore) apply() error {
	settings, err := DecodeSettings(s.v)
	if err != nil {
		return err
	}
	s.current.Store(settings)
	s.log.Info("Shipping settings loaded",
		zap.String("file", s.v.ConfigFileUsed()),
		zap.Int("rules", settings.Table.Len()),
		zap.Bool("origin_configured", !settings.Origin.IsZero()),
	)
	return nil
}

// DecodeSettings unmarshals the settings document held by v and validates it.
func DecodeSettings(v *viper.Viper) (*domain.Settings, error) {
	var raw domain.RawSettings
	if err := v.Unmarshal(&raw); err != nil {
		return nil, apperr.Wrap(apperr.KindConfiguration, "unable to decode shipping settings", err)
	}

	settings, err := domain.BuildSettings(raw)
	if err != nil {
		return nil, fmt.Errorf("shipping settings %s: %w", v.ConfigFileUsed(), err)
	}
	return settings, nil
}
