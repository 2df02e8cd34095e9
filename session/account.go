package session

import (
	"context"
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Identity is who a token is issued to.
type Identity struct {
	Username string
	Email    string
}

// Authenticator checks a username/password pair against some credential source.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (Identity, error)
}

// StaticAccount is a single configured account.
type StaticAccount struct {
	id   Identity
	hash []byte
}

// NewStaticAccount hashes password; use NewStaticAccountHash when only a bcrypt hash is configured.
func NewStaticAccount(username, email, password string) (*StaticAccount, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return NewStaticAccountHash(username, email, hash), nil
}

func NewStaticAccountHash(username, email string, hash []byte) *StaticAccount {
	return &StaticAccount{id: Identity{Username: username, Email: email}, hash: hash}
}

func (a *StaticAccount) Authenticate(_ context.Context, username, password string) (Identity, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.id.Username)) == 1
	// always run bcrypt so a wrong username costs the same as a wrong password
	passErr := bcrypt.CompareHashAndPassword(a.hash, []byte(password))
	if !userOK || passErr != nil {
		return Identity{}, ErrInvalidCredentials
	}
	return a.id, nil
}
