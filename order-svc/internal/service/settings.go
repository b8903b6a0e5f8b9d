package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"table-ordering/order-svc/internal/domain"
)

type Settings struct {
	mu       sync.RWMutex
	cache    LocalCache
	logger   *slog.Logger
	language domain.Language
	theme    domain.Theme
}

func NewSettings(cache LocalCache, logger *slog.Logger) *Settings {
	return &Settings{
		cache:    cache,
		logger:   logger,
		language: domain.LanguageEnglish,
		theme:    domain.ThemeSystem,
	}
}

// Load restores stored values. Missing or invalid values keep the defaults.
func (s *Settings) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, err := s.cache.Get(ctx, KeyLanguage); err == nil {
		if lang := domain.Language(raw); lang.Valid() {
			s.language = lang
		}
	}
	if raw, err := s.cache.Get(ctx, KeyTheme); err == nil {
		if theme := domain.Theme(raw); theme.Valid() {
			s.theme = theme
		}
	}
}

func (s *Settings) Language() domain.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

func (s *Settings) Theme() domain.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *Settings) SetLanguage(ctx context.Context, value string) error {
	lang := domain.Language(value)
	if !lang.Valid() {
		return fmt.Errorf("language %q: %w", value, domain.ErrInvalidSetting)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = lang
	return s.persist(ctx, KeyLanguage, string(lang))
}

func (s *Settings) SetTheme(ctx context.Context, value string) error {
	theme := domain.Theme(value)
	if !theme.Valid() {
		return fmt.Errorf("theme %q: %w", value, domain.ErrInvalidSetting)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return s.persist(ctx, KeyTheme, string(theme))
}

func (s *Settings) persist(ctx context.Context, key, value string) error {
	if err := s.cache.Set(ctx, key, []byte(value)); err != nil {
		s.logger.Warn("persist setting", slog.String("key", key), slog.Any("error", err))
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}
