package admin

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the shared admin password used when none is configured.
// It is a placeholder, not an authentication scheme.
const DefaultPassword = "merdeka17"

var (
	ErrEmptyPassword = errors.New("admin password is required")
	ErrWrongPassword = errors.New("wrong admin password")
)

// Flag is the persisted admin state of one browser client.
type Flag struct {
	Active bool
	// LastActive is written when the flag is switched on. Nothing expires it.
	LastActive time.Time
}

// Password holds a bcrypt hash of the shared admin password.
type Password struct {
	hash []byte
}

// NewPassword hashes plaintext with the given bcrypt cost.
// PRE: plaintext is non-empty; cost within bcrypt limits (0 selects the default)
// POST: Returns a Password that verifies only plaintext
func NewPassword(plaintext string, cost int) (Password, error) {
	if plaintext == "" {
		return Password{}, ErrEmptyPassword
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return Password{}, err
	}
	return Password{hash: hash}, nil
}

// Check compares a candidate against the stored hash.
// PRE: p was built by NewPassword
// POST: Returns nil on match, ErrWrongPassword otherwise
func (p Password) Check(candidate string) error {
	if len(p.hash) == 0 || candidate == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword(p.hash, []byte(candidate)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

type clientKey struct{}

// ContextWithClient returns a context carrying the browser client id the
// admin flag is scoped to.
func ContextWithClient(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, clientKey{}, id)
}

// ClientFromContext returns the client id, or "" when the request has none.
func ClientFromContext(ctx context.Context) string {
	id, _ := ctx.Value(clientKey{}).(string)
	return id
}
