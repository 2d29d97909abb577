package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/mcoot/musikspil/internal/dependencies/clock"
	"github.com/mcoot/musikspil/internal/dependencies/random"
	"github.com/mcoot/musikspil/internal/model"
	"github.com/mcoot/musikspil/internal/storage"
)

// fallbackRandomLength is the number of random hex chars in a fallback ID
const fallbackRandomLength = 13

// atomicSetter is implemented by storage backends that can create a key
// only if it is absent (redis). Other backends use get-then-set.
type atomicSetter interface {
	SetIfAbsent(ctx context.Context, key, value string) (string, error)
}

// Service derives and persists the stable per-device identifier sent with
// every request. The server uses it to recognise repeated joins from the
// same device and for anonymous usage counting.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	newUUID func() (uuid.UUID, error)

	mu       sync.Mutex
	deviceID string
}

// New creates a new identity Service
func New(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "identity")),
		newUUID: uuid.NewRandom,
	}
}

// GetOrCreateDeviceID returns the persisted device ID, generating and
// storing one on first use. The ID is never regenerated while present.
func (s *Service) GetOrCreateDeviceID(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deviceID != "" {
		return s.deviceID, nil
	}

	id, err := s.storage.Get(ctx, storage.KeyDeviceID)
	if err == nil && id != "" {
		s.deviceID = id
		return id, nil
	}
	if err != nil && !errors.Is(err, model.ErrKeyNotFound) {
		return "", fmt.Errorf("failed to read device id: %w", err)
	}

	id = s.generate()

	if setter, ok := s.storage.(atomicSetter); ok {
		stored, err := setter.SetIfAbsent(ctx, storage.KeyDeviceID, id)
		if err != nil {
			return "", fmt.Errorf("failed to store device id: %w", err)
		}
		id = stored
	} else if err := s.storage.Set(ctx, storage.KeyDeviceID, id); err != nil {
		return "", fmt.Errorf("failed to store device id: %w", err)
	}

	s.logger.Info("device id created", slog.String("device_id", id))
	s.deviceID = id
	return id, nil
}

// generate returns a random UUID, or a random+time composite if the
// system random source is unavailable
func (s *Service) generate() string {
	u, err := s.newUUID()
	if err == nil {
		return u.String()
	}

	s.logger.Warn("uuid generation failed, using fallback id", slog.String("error", err.Error()))
	return s.random.String(fallbackRandomLength, random.HexAlphabet) +
		strconv.FormatInt(s.clock.Now().UnixMilli(), 16)
}
