package auth

import "sync"

// TokenHolder is the process-wide cell holding the current access credential.
// An empty holder means the listener is a guest. No persistence; the UI is
// expected to hand the engine a fresh token on startup and after refresh.
type TokenHolder struct {
	mu     sync.RWMutex
	token  string
	claims *Claims
}

// NewTokenHolder returns an empty holder (guest session).
func NewTokenHolder() *TokenHolder {
	return &TokenHolder{}
}

// Set validates the token and stores it. An invalid token leaves the holder
// unchanged and returns the validation error.
func (h *TokenHolder) Set(token string) error {
	claims, err := ParseToken(token)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.token = token
	h.claims = claims
	h.mu.Unlock()
	return nil
}

// Clear drops the current credential, returning the session to guest mode.
func (h *TokenHolder) Clear() {
	h.mu.Lock()
	h.token = ""
	h.claims = nil
	h.mu.Unlock()
}

// Token returns the raw token string, empty for guests.
func (h *TokenHolder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Claims returns the claims of the current token, nil for guests.
func (h *TokenHolder) Claims() *Claims {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.claims
}

// Authenticated reports whether an authenticated identity is attached.
func (h *TokenHolder) Authenticated() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.claims != nil
}
