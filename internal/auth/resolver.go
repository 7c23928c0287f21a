package auth

import (
	"context"
	"errors"
	"strings"

	"clubsphere/internal/model"
	"clubsphere/internal/pkg"
	"clubsphere/internal/repository"
)

var (
	ErrNoToken     = errors.New("no bearer token")
	ErrTokenFailed = errors.New("token verification failed")
)

type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*pkg.IDToken, error)
}

type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// Resolver maps a bearer credential to a local identity. Every call re-verifies the token.
type Resolver struct {
	verifier TokenVerifier
	users    UserFinder
}

func NewResolver(verifier TokenVerifier, users UserFinder) *Resolver {
	return &Resolver{verifier: verifier, users: users}
}

// Resolve accepts the raw Authorization header value.
func (r *Resolver) Resolve(ctx context.Context, header string) (Identity, error) {
	raw, ok := bearer(header)
	if !ok {
		return nil, ErrNoToken
	}
	tok, err := r.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, ErrTokenFailed
	}

	user, err := r.users.GetByEmail(ctx, tok.Email)
	switch {
	case err == nil:
		return Persisted{User: user}, nil
	case errors.Is(err, repository.ErrNotFound):
		return Provisional{Email: tok.Email, Name: tok.Name, Picture: tok.Picture}, nil
	}
	return nil, err
}

func bearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
