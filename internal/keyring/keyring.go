// Package keyring keeps database connection strings in the OS keyring, so a
// PostgreSQL password never has to appear in the config file or on the
// command line.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/standup/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Credentials addresses one keyring entry under the standup service.
type Credentials struct {
	service string
	user    string
}

// New returns the entry for profile; an empty profile selects the default one.
func New(profile string) *Credentials {
	user := constants.DefaultKeyringUser
	if p := strings.TrimSpace(profile); p != "" {
		user = user + ":" + p
	}
	return &Credentials{service: constants.AppName, user: user}
}

func (c *Credentials) User() string {
	return c.user
}

// Get retrieves the connection string. Returns ErrNotFound if none is stored.
func (c *Credentials) Get() (string, error) {
	connStr, err := keyring.Get(c.service, c.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

func (c *Credentials) Set(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(c.service, c.user, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func (c *Credentials) Delete() error {
	err := keyring.Delete(c.service, c.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable reports whether the OS keyring answers a lookup.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// Mask hides everything after the scheme so a stored connection string can be
// shown without leaking credentials.
func Mask(connStr string) string {
	if i := strings.Index(connStr, "://"); i >= 0 {
		return connStr[:i+3] + "****"
	}
	if len(connStr) <= 4 {
		return "****"
	}
	return connStr[:4] + "****"
}
