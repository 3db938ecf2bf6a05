package credential

import (
	"errors"
	"os/user"

	"github.com/zalando/go-keyring"

	"github.com/ayoisaiah/autoblock/internal/apperr"
)

const service = "autoblock"

var (
	// ErrNotFound means no password has been stored yet.
	ErrNotFound = &apperr.Error{
		Message: "no password stored in the keychain: run 'autoblock set-password'",
	}

	ErrKeyringUnavailable = &apperr.Error{
		Message: "keychain is not available",
	}

	errEmptySecret = &apperr.Error{
		Message: "password cannot be empty",
	}
)

// Store keeps the login password in the OS keyring.
type Store struct {
	Service string
	User    string
}

// NewStore returns a Store for the current OS user.
func NewStore() (*Store, error) {
	u, err := user.Current()
	if err != nil {
		return nil, ErrKeyringUnavailable.Wrap(err)
	}

	return &Store{
		Service: service,
		User:    u.Username,
	}, nil
}

// Get returns the stored password.
func (s *Store) Get() (string, error) {
	secret, err := keyring.Get(s.Service, s.User)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}

		return "", ErrKeyringUnavailable.Wrap(err)
	}

	return secret, nil
}

// Set stores secret, replacing any previous value.
func (s *Store) Set(secret string) error {
	if secret == "" {
		return errEmptySecret
	}

	if err := keyring.Set(s.Service, s.User, secret); err != nil {
		return ErrKeyringUnavailable.Wrap(err)
	}

	return nil
}

// Delete removes the stored password. Deleting a missing password is not
// an error.
func (s *Store) Delete() error {
	err := keyring.Delete(s.Service, s.User)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return ErrKeyringUnavailable.Wrap(err)
	}

	return nil
}
