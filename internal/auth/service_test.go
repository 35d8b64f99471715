package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndValidateToken(t *testing.T) {
	svc := NewService("test-secret")
	token, err := svc.IssueToken(Identity{UserID: "user-1", Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	id, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if id.UserID != "user-1" || id.Name != "Ada" || id.Email != "ada@example.com" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestIssueTokenRequiresUserID(t *testing.T) {
	if _, err := NewService("secret").IssueToken(Identity{}); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}

func TestIssueTokenSignError(t *testing.T) {
	old := signTokenFn
	signTokenFn = func(*jwt.Token, []byte) (string, error) { return "", errSign }
	defer func() { signTokenFn = old }()

	if _, err := NewService("secret").IssueToken(Identity{UserID: "user-1"}); err == nil {
		t.Fatalf("expected sign error")
	}
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	token, _ := NewService("one").IssueToken(Identity{UserID: "user-1"})
	if _, err := NewService("two").ValidateAccessToken(token); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestValidateAccessTokenExpired(t *testing.T) {
	svc := NewService("secret")
	token, err := svc.signToken(Identity{UserID: "user-1"}, -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.ValidateAccessToken(token); err == nil {
		t.Fatalf("expected expired token error")
	}
}

func TestValidateAccessTokenRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "user-1"})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewService("secret").ValidateAccessToken(signed); err == nil {
		t.Fatalf("expected algorithm rejection")
	}
}

func TestValidateAccessTokenGarbage(t *testing.T) {
	if _, err := NewService("secret").ValidateAccessToken("bad"); err == nil {
		t.Fatalf("expected parse error")
	}
}

var errSign = errors.New("sign error")
