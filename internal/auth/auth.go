// Package auth is the authentication provider: credential storage,
// session tokens and staff onboarding. Credentials live bcrypt-hashed in
// their own collection, keyed by the same id as the account profile, so
// ownership checks everywhere use one canonical identifier.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"fleetdesk/internal/domain"
	"fleetdesk/internal/store"
)

const tokenTTL = 24 * time.Hour

// Credential is the stored login document. The profile fields live on the
// Account in the accounts collection; only the hash lives here.
type Credential struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// Service issues and verifies sessions against the document store.
type Service struct {
	Store  store.Store
	Secret []byte
}

// RegisterInput is the payload for self-registration and owner-initiated
// staff onboarding.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

// Register creates a credential and its account profile as one logical
// operation. If the profile write fails the credential is deleted again,
// so no orphaned login can accumulate.
func (s Service) Register(ctx context.Context, in RegisterInput) (domain.Account, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return domain.Account{}, domain.ValidationError{Field: "email", Msg: "required"}
	}
	if len(in.Password) < 6 {
		return domain.Account{}, domain.ValidationError{Field: "password", Msg: "at least 6 characters"}
	}
	if strings.TrimSpace(in.Name) == "" {
		return domain.Account{}, domain.ValidationError{Field: "name", Msg: "required"}
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return domain.Account{}, err
	}

	if _, err := s.credentialByEmail(ctx, email); err == nil {
		return domain.Account{}, domain.ValidationError{Field: "email", Msg: "already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Account{}, err
	}

	creds := s.Store.Collection(store.ColCredentials)
	id, err := creds.Add(ctx, Credential{Email: email, PasswordHash: string(hash)})
	if err != nil {
		return domain.Account{}, domain.RemoteWriteError{Op: "create credential", Err: err}
	}

	account := domain.Account{
		ID:        id,
		Email:     email,
		Name:      strings.TrimSpace(in.Name),
		Role:      role,
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: time.Now(),
	}
	if err := s.Store.Collection(store.ColAccounts).Set(ctx, id, account); err != nil {
		// compensate: never leave a credential without a profile
		_ = creds.Delete(ctx, id)
		return domain.Account{}, domain.RemoteWriteError{Op: "create account profile", Err: err}
	}
	return account, nil
}

// Login verifies the credential and returns a signed session token with
// the account profile. A credential whose profile document is missing is
// orphaned; the caller must treat that as a forced logout.
func (s Service) Login(ctx context.Context, email, password string) (string, domain.Account, error) {
	cred, err := s.credentialByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", domain.Account{}, domain.AuthenticationError{Msg: "wrong email or password"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return "", domain.Account{}, domain.AuthenticationError{Msg: "wrong email or password"}
	}

	account, err := s.Profile(ctx, cred.ID)
	if err != nil {
		return "", domain.Account{}, err
	}

	actor := account.Actor()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  actor.ID,
		"name": actor.Name,
		"role": string(actor.Role),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", domain.Account{}, err
	}
	return signed, account, nil
}

// Profile loads the account document for an authenticated id. Missing
// profile for a live credential means the credential is orphaned.
func (s Service) Profile(ctx context.Context, accountID string) (domain.Account, error) {
	snap, err := s.Store.Collection(store.ColAccounts).List(ctx)
	if err != nil {
		return domain.Account{}, err
	}
	accounts, err := store.Decode[domain.Account](snap)
	if err != nil {
		return domain.Account{}, err
	}
	for _, a := range accounts {
		if a.ID == accountID {
			return a, nil
		}
	}
	return domain.Account{}, domain.AuthenticationError{Msg: "account profile missing, forcing logout"}
}

// ParseToken verifies a session token and returns the acting identity.
func (s Service) ParseToken(tokenString string) (domain.Actor, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.AuthenticationError{Msg: "unexpected signing method"}
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return domain.Actor{}, domain.AuthenticationError{Msg: "invalid or expired token", Err: err}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Actor{}, domain.AuthenticationError{Msg: "invalid token claims"}
	}
	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	roleStr, _ := claims["role"].(string)
	role, err := domain.ParseRole(roleStr)
	if err != nil || sub == "" {
		return domain.Actor{}, domain.AuthenticationError{Msg: "invalid token claims"}
	}
	return domain.Actor{ID: sub, Name: name, Role: role}, nil
}

func (s Service) credentialByEmail(ctx context.Context, email string) (Credential, error) {
	snap, err := s.Store.Collection(store.ColCredentials).List(ctx)
	if err != nil {
		return Credential{}, err
	}
	creds, err := store.Decode[Credential](snap)
	if err != nil {
		return Credential{}, err
	}
	for _, c := range creds {
		if c.Email == email {
			return c, nil
		}
	}
	return Credential{}, domain.NotFoundError{Resource: "credential"}
}
