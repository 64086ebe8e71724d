package auth

import (
	"context"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when an email/password pair does not
// match a known identity.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Identity is the decoded principal attached to authenticated requests.
type Identity struct {
	ID    int64
	Email string
}

// CredentialVerifier checks a credential pair and resolves the identity it
// belongs to. Implementations return ErrInvalidCredentials on mismatch.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (*Identity, error)
}

// StaticVerifier is a CredentialVerifier over a single configured
// administrator. It is a stand-in for a real user store: the password is
// bcrypt-hashed at construction and compared in constant time, but there is
// exactly one identity and it lives in configuration.
type StaticVerifier struct {
	id           int64
	email        string
	passwordHash []byte
}

// NewStaticVerifier builds a StaticVerifier for the given administrator
// credentials. The plaintext password is hashed immediately and not retained.
func NewStaticVerifier(id int64, email, password string) (*StaticVerifier, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash admin password")
	}
	return &StaticVerifier{
		id:           id,
		email:        email,
		passwordHash: hash,
	}, nil
}

// Verify matches the pair against the configured administrator.
func (v *StaticVerifier) Verify(_ context.Context, email, password string) (*Identity, error) {
	if email != v.email {
		// Burn a comparison anyway so a wrong email costs the same as a
		// wrong password.
		_ = bcrypt.CompareHashAndPassword(v.passwordHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(v.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Identity{ID: v.id, Email: v.email}, nil
}
