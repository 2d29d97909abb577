package prefs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/musikspil/internal/model"
	"github.com/mcoot/musikspil/internal/storage"
)

// Service persists local UI preferences
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new preferences Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "prefs")),
	}
}

// HistoryCollapsed returns whether the history panel is collapsed.
// Read failures are logged and treated as expanded.
func (s *Service) HistoryCollapsed(ctx context.Context) bool {
	v, err := s.storage.Get(ctx, storage.KeyHistoryCollapsed)
	if err != nil {
		if !errors.Is(err, model.ErrKeyNotFound) {
			s.logger.Warn("failed to read preference",
				slog.String("key", storage.KeyHistoryCollapsed),
				slog.String("error", err.Error()))
		}
		return false
	}
	return v == "1"
}

// SetHistoryCollapsed persists the history panel state
func (s *Service) SetHistoryCollapsed(ctx context.Context, collapsed bool) error {
	v := "0"
	if collapsed {
		v = "1"
	}
	if err := s.storage.Set(ctx, storage.KeyHistoryCollapsed, v); err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}
	return nil
}

// ToggleHistoryCollapsed flips the history panel state and returns the new value
func (s *Service) ToggleHistoryCollapsed(ctx context.Context) (bool, error) {
	collapsed := !s.HistoryCollapsed(ctx)
	if err := s.SetHistoryCollapsed(ctx, collapsed); err != nil {
		return !collapsed, err
	}
	return collapsed, nil
}
