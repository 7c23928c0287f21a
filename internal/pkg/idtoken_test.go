package pkg

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestLocalVerifier(t *testing.T) {
	v, err := NewLocalVerifier("s3cret")
	if err != nil {
		t.Fatalf("NewLocalVerifier: %v", err)
	}

	t.Run("round trip", func(t *testing.T) {
		raw, err := IssueLocalToken("s3cret", "ann@example.com", "Ann", time.Hour)
		if err != nil {
			t.Fatalf("IssueLocalToken: %v", err)
		}
		tok, err := v.Verify(context.Background(), raw)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if tok.Email != "ann@example.com" || tok.Name != "Ann" {
			t.Fatalf("token = %+v", tok)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		raw, _ := IssueLocalToken("other", "ann@example.com", "Ann", time.Hour)
		if _, err := v.Verify(context.Background(), raw); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("Verify err = %v, want ErrTokenInvalid", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		claims := idClaims{Email: "ann@example.com", RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    LocalIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}
		raw, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
		if _, err := v.Verify(context.Background(), raw); !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("Verify err = %v, want ErrTokenExpired", err)
		}
	})

	t.Run("missing email", func(t *testing.T) {
		raw, _ := IssueLocalToken("s3cret", "  ", "Nobody", time.Hour)
		if _, err := v.Verify(context.Background(), raw); !errors.Is(err, ErrTokenNoEmail) {
			t.Fatalf("Verify err = %v, want ErrTokenNoEmail", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := v.Verify(context.Background(), "not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("Verify err = %v, want ErrTokenInvalid", err)
		}
	})
}

func TestNewLocalVerifierRequiresSecret(t *testing.T) {
	if _, err := NewLocalVerifier(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func signFirebase(t *testing.T, key *rsa.PrivateKey, claims idClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = "test-key"
	raw, err := tok.SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return raw
}

func TestFirebaseVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	kf := func(*jwt.Token) (any, error) { return &key.PublicKey, nil }
	v := NewFirebaseVerifierWithKeyfunc("club-app", kf)

	valid := func() idClaims {
		now := time.Now()
		return idClaims{
			Email:   "ann@example.com",
			Name:    "Ann",
			Picture: "https://img.example.com/ann.png",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "https://securetoken.google.com/club-app",
				Audience:  jwt.ClaimStrings{"club-app"},
				Subject:   "uid-1",
				IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		tok, err := v.Verify(context.Background(), signFirebase(t, key, valid()))
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if tok.Subject != "uid-1" || tok.Picture == "" {
			t.Fatalf("token = %+v", tok)
		}
	})

	t.Run("wrong audience", func(t *testing.T) {
		c := valid()
		c.Audience = jwt.ClaimStrings{"someone-else"}
		if _, err := v.Verify(context.Background(), signFirebase(t, key, c)); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("Verify err = %v", err)
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		c := valid()
		c.Issuer = "https://evil.example.com/club-app"
		if _, err := v.Verify(context.Background(), signFirebase(t, key, c)); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("Verify err = %v", err)
		}
	})

	t.Run("hs256 rejected", func(t *testing.T) {
		raw, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, valid()).SignedString([]byte("x"))
		if _, err := v.Verify(context.Background(), raw); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("Verify err = %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		c := valid()
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		if _, err := v.Verify(context.Background(), signFirebase(t, key, c)); !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("Verify err = %v", err)
		}
	})
}

func TestNoticeHTMLEscapes(t *testing.T) {
	got := NoticeHTML("<Ann>", "Joined", [][2]string{{"Club", "Chess & Go"}})
	if strings.Contains(got, "<Ann>") {
		t.Fatalf("name not escaped: %s", got)
	}
	if !strings.Contains(got, "Chess &amp; Go") {
		t.Fatalf("row not escaped: %s", got)
	}
}
