// Package session keeps the transient result of a questionnaire run so it
// can be re-fetched and exported. Nothing here outlives the configured TTL.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/anti-portfolio-go/internal/domain"
	"github.com/kapu/anti-portfolio-go/pkg/errors"
)

var (
	ErrNotFound   = errors.NewNotFoundError("session not found")
	ErrNoManifest = errors.NewNotFoundError("session has no manifest yet")
)

// Session is one user's working state.
type Session struct {
	ID        string                   `json:"id"`
	Manifest  *domain.IdentityManifest `json:"manifest,omitempty"`
	Origin    domain.Origin            `json:"origin,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// HasManifest reports whether a generation has been saved.
func (s Session) HasManifest() bool {
	return s.Manifest != nil
}

type Manager struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewManager(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Start opens a fresh session. When previousID is set, that session is
// discarded first so a new questionnaire never sees an old result.
func (m *Manager) Start(ctx context.Context, previousID string) (Session, error) {
	if id := strings.TrimSpace(previousID); id != "" {
		if err := m.store.Delete(ctx, id); err != nil {
			return Session{}, err
		}
	}

	now := m.now()
	s := Session{ID: m.newID(), CreatedAt: now, UpdatedAt: now}
	if err := m.store.Put(ctx, s); err != nil {
		return Session{}, err
	}

	m.logger.Debug("Session started", zap.String("session_id", s.ID))
	return s, nil
}

// Save overwrites the session's manifest with the latest generation.
func (m *Manager) Save(ctx context.Context, id string, gen domain.Generation) (Session, error) {
	s, err := m.Load(ctx, id)
	if err != nil {
		return Session{}, err
	}

	result := gen.Manifest
	s.Manifest = &result
	s.Origin = gen.Origin
	s.UpdatedAt = m.now()

	if err := m.store.Put(ctx, s); err != nil {
		return Session{}, err
	}

	m.logger.Debug("Session saved",
		zap.String("session_id", id),
		zap.String("origin", string(gen.Origin)),
	)
	return s, nil
}

func (m *Manager) Load(ctx context.Context, id string) (Session, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Session{}, ErrNotFound
	}
	s, found, err := m.store.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if !found {
		return Session{}, ErrNotFound
	}
	return s, nil
}

// LoadManifest returns the saved manifest or ErrNoManifest.
func (m *Manager) LoadManifest(ctx context.Context, id string) (domain.IdentityManifest, error) {
	s, err := m.Load(ctx, id)
	if err != nil {
		return domain.IdentityManifest{}, err
	}
	if !s.HasManifest() {
		return domain.IdentityManifest{}, ErrNoManifest
	}
	return *s.Manifest, nil
}

// End discards the session. Ending an unknown session is not an error.
func (m *Manager) End(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, strings.TrimSpace(id)); err != nil {
		return err
	}
	m.logger.Debug("Session ended", zap.String("session_id", id))
	return nil
}
