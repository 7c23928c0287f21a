package pkg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenNoEmail is returned for a verified token that carries no email claim.
	ErrTokenNoEmail = errors.New("token has no email")
)

const (
	FirebaseJWKSURL      = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	firebaseIssuerPrefix = "https://securetoken.google.com/"
	LocalIssuer          = "clubsphere-local"
	LocalTokenTTL        = 24 * time.Hour
)

// IDToken is what a verified identity token says about its bearer.
type IDToken struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type idClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

func (c *idClaims) token() (*IDToken, error) {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return nil, ErrTokenNoEmail
	}
	return &IDToken{Subject: c.Subject, Email: email, Name: c.Name, Picture: c.Picture}, nil
}

func parseErr(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
}

// FirebaseVerifier checks Firebase ID tokens: RS256 signatures against Google's rotating keys,
// audience equal to the project id, issuer securetoken.google.com/<project>.
type FirebaseVerifier struct {
	projectID string
	keyfunc   jwt.Keyfunc
	jwks      *keyfunc.JWKS
}

// NewFirebaseVerifier fetches the signing keys from jwksURL and keeps them refreshed in the background.
func NewFirebaseVerifier(ctx context.Context, projectID, jwksURL string) (*FirebaseVerifier, error) {
	if projectID == "" {
		return nil, errors.New("firebase project id is required")
	}
	if jwksURL == "" {
		jwksURL = FirebaseJWKSURL
	}
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
	})
	if err != nil {
		return nil, fmt.Errorf("load firebase keys: %w", err)
	}
	v := NewFirebaseVerifierWithKeyfunc(projectID, jwks.Keyfunc)
	v.jwks = jwks
	return v, nil
}

// NewFirebaseVerifierWithKeyfunc verifies against keys supplied by kf.
func NewFirebaseVerifierWithKeyfunc(projectID string, kf jwt.Keyfunc) *FirebaseVerifier {
	return &FirebaseVerifier{projectID: projectID, keyfunc: kf}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, raw string) (*IDToken, error) {
	var claims idClaims
	_, err := jwt.ParseWithClaims(raw, &claims, v.keyfunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.projectID),
		jwt.WithIssuer(firebaseIssuerPrefix+v.projectID),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, parseErr(err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrTokenInvalid)
	}
	return claims.token()
}

// Close stops the background key refresh.
func (v *FirebaseVerifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// LocalVerifier accepts HS256 tokens signed with a shared secret. It backs development setups and tests.
type LocalVerifier struct {
	secret []byte
}

func NewLocalVerifier(secret string) (*LocalVerifier, error) {
	if secret == "" {
		return nil, errors.New("local token secret is required")
	}
	return &LocalVerifier{secret: []byte(secret)}, nil
}

func (v *LocalVerifier) Verify(ctx context.Context, raw string) (*IDToken, error) {
	var claims idClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(LocalIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, parseErr(err)
	}
	return claims.token()
}

// IssueLocalToken signs a token LocalVerifier accepts.
func IssueLocalToken(secret, email, name string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = LocalTokenTTL
	}
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, idClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    LocalIssuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return t.SignedString([]byte(secret))
}
