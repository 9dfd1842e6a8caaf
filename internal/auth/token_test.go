package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testCodec() *Codec {
	return NewCodec("access-secret", "refresh-secret", 30*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundtrip(t *testing.T) {
	c := testCodec()
	tok, err := c.IssueAccess(7, "employee")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if strings.Count(tok, ".") != 2 {
		t.Fatalf("expected compact three-segment token, got %q", tok)
	}
	cl, err := c.DecodeAccess(tok)
	if err != nil {
		t.Fatalf("DecodeAccess: %v", err)
	}
	if cl.Subject != "7" || cl.Role != "employee" {
		t.Fatalf("unexpected claims: %+v", cl)
	}
	id, err := cl.UserID()
	if err != nil || id != 7 {
		t.Fatalf("UserID = %d, %v", id, err)
	}
	if !cl.ExpiresAt.After(time.Now()) {
		t.Fatalf("access token already expired: %v", cl.ExpiresAt)
	}
}

func TestRefreshTokenCarriesNoRole(t *testing.T) {
	c := testCodec()
	tok, err := c.IssueRefresh(7)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	cl, err := c.DecodeRefresh(tok)
	if err != nil {
		t.Fatalf("DecodeRefresh: %v", err)
	}
	if cl.Subject != "7" {
		t.Fatalf("subject = %q", cl.Subject)
	}
	if cl.Role != "" {
		t.Fatalf("refresh token leaked role claim %q", cl.Role)
	}
}

func TestIssuedTokensAreUnique(t *testing.T) {
	c := testCodec()
	// Issue within the same second: the whole-second exp claim is identical,
	// so only the random jti keeps the token values apart. The registry
	// depends on distinct values (access token is the row key).
	a1, err := c.IssueAccess(7, "employee")
	if err != nil {
		t.Fatal(err)
	}
	a2, err := c.IssueAccess(7, "employee")
	if err != nil {
		t.Fatal(err)
	}
	if a1 == a2 {
		t.Fatal("two access tokens issued back-to-back are identical")
	}

	r1, err := c.IssueRefresh(7)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := c.IssueRefresh(7)
	if err != nil {
		t.Fatal(err)
	}
	if r1 == r2 {
		t.Fatal("two refresh tokens issued back-to-back are identical")
	}
}

func TestSecretsAreNotInterchangeable(t *testing.T) {
	c := testCodec()
	access, _ := c.IssueAccess(7, "employee")
	refresh, _ := c.IssueRefresh(7)

	if _, err := c.DecodeRefresh(access); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("access token decoded under refresh secret: %v", err)
	}
	if _, err := c.DecodeAccess(refresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh token decoded under access secret: %v", err)
	}
}

func TestDecodeExpiredToken(t *testing.T) {
	c := NewCodec("access-secret", "refresh-secret", -time.Minute, -time.Minute)
	tok, err := c.IssueAccess(7, "employee")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := c.DecodeAccess(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token decoded: %v", err)
	}
}

func TestDecodeMalformedToken(t *testing.T) {
	c := testCodec()
	for _, tok := range []string{"", "garbage", "a.b.c", "a.b", strings.Repeat(".", 5)} {
		if _, err := c.DecodeAccess(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("malformed token %q decoded: %v", tok, err)
		}
	}
}

func TestDecodeTamperedToken(t *testing.T) {
	c := testCodec()
	tok, _ := c.IssueAccess(7, "employee")
	// Flip a character in the signature segment.
	i := strings.LastIndex(tok, ".") + 1
	b := []byte(tok)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	if _, err := c.DecodeAccess(string(b)); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("tampered token decoded: %v", err)
	}
}
