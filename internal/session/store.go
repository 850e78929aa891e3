package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alexedwards/scs/v2"

	"memberdesk/internal/model"
)

// KeyIdentity is the session key holding the serialized admin identity.
const KeyIdentity = "admin_identity"

// State describes the authentication state of the current session.
type State struct {
	Identity        model.AdminIdentity
	IsAuthenticated bool
}

// Store wraps the session manager with typed access to the admin identity.
// The identity is stored as a JSON blob; anything that fails to decode or
// does not carry the admin role is discarded, so a corrupted or tampered
// session resolves to unauthenticated rather than an error page.
type Store struct {
	sm *scs.SessionManager
}

// NewStore creates an identity store on top of the session manager.
func NewStore(sm *scs.SessionManager) *Store {
	return &Store{sm: sm}
}

// Manager returns the underlying session manager, for middleware wiring.
func (s *Store) Manager() *scs.SessionManager {
	return s.sm
}

// Initialize resolves the session's stored identity. Invalid blobs and
// non-admin identities are purged from the session.
func (s *Store) Initialize(ctx context.Context) State {
	raw := s.sm.GetBytes(ctx, KeyIdentity)
	if len(raw) == 0 {
		return State{}
	}

	var identity model.AdminIdentity
	if err := json.Unmarshal(raw, &identity); err != nil {
		s.sm.Remove(ctx, KeyIdentity)
		return State{}
	}
	if !identity.IsAdmin() {
		s.sm.Remove(ctx, KeyIdentity)
		return State{}
	}

	return State{Identity: identity, IsAuthenticated: true}
}

// Login persists the identity in the session. The session token is renewed
// to prevent session fixation.
func (s *Store) Login(ctx context.Context, identity model.AdminIdentity) error {
	if !identity.IsAdmin() {
		return fmt.Errorf("identity %q does not have the admin role", identity.Username)
	}

	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encoding identity: %w", err)
	}

	if err := s.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	s.sm.Put(ctx, KeyIdentity, raw)

	return nil
}

// Logout destroys the session and its cookie.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// Flash stores a one-time message shown on the next rendered page.
func (s *Store) Flash(ctx context.Context, message, flashType string) {
	s.sm.Put(ctx, "flash", message)
	s.sm.Put(ctx, "flash_type", flashType)
}

// PopFlash retrieves and clears the pending flash message.
func (s *Store) PopFlash(ctx context.Context) (message, flashType string) {
	return s.sm.PopString(ctx, "flash"), s.sm.PopString(ctx, "flash_type")
}
