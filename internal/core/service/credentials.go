package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/cafeteria/portal-system/internal/core/ports"
)

// PlainCredentials stores passwords as given and compares them by value.
// This is the historical contract of the account collections; it offers no
// protection if the database leaks.
type PlainCredentials struct{}

func (PlainCredentials) Seal(password string) (string, error) { return password, nil }

func (PlainCredentials) Match(stored, given string) bool { return stored == given }

// BcryptCredentials stores bcrypt hashes and compares in constant time.
type BcryptCredentials struct {
	Cost int
}

// Seal always hashes password, even when it looks like a bcrypt hash.
func (b BcryptCredentials) Seal(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptCredentials) Match(stored, given string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
}

// CredentialsFor maps the PASSWORD_MODE setting to a policy. Anything other
// than "bcrypt" keeps plaintext comparison.
func CredentialsFor(mode string) ports.Credentials {
	if strings.EqualFold(strings.TrimSpace(mode), "bcrypt") {
		return BcryptCredentials{}
	}
	return PlainCredentials{}
}
