package util

import (
	"testing"
	"time"

	"lms_backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{Email: "student@example.com", Role: model.Student}
	user.ID = 42

	token, err := GenerateJWT(user, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Role != model.Student || claims.Email != "student@example.com" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	user := &model.User{Email: "x@example.com", Role: model.Professor}
	user.ID = 1

	token, err := GenerateJWT(user, "right-secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseJWT(token, "wrong-secret"); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestParseJWTRejectsForeignToken(t *testing.T) {
	// 其他服务签发的令牌（issuer 不同）不能通过校验
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 7,
		Role:   model.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "some-other-service",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := foreign.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseJWT(signed, "secret"); err == nil {
		t.Fatal("expected token with foreign issuer to be rejected")
	}
}

func TestParseJWTRejectsUnexpectedAlg(t *testing.T) {
	other := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "lms-backend",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := other.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := ParseJWT(signed, "secret"); err == nil {
		t.Fatal("expected non-HS256 token to be rejected")
	}
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{Email: "x@example.com", Role: model.Student}
	user.ID = 1

	token, err := GenerateJWT(user, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseJWT(token, "secret"); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}
