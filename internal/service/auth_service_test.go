package service

import (
	"errors"
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-for-auth-service-tests"
	cfg.JWT.ExpireTime = 72 * time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newAuthService(t)

	user := &model.User{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
		Role:     model.Student,
	}
	if err := auth.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Password == "password123" {
		t.Fatal("password stored in plain text")
	}

	token, err := auth.Login("alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := util.ParseJWT(token, auth.Cfg.JWT.Secret)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != model.Student {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth := newAuthService(t)

	first := &model.User{Name: "A", Email: "dup@example.com", Password: "password123"}
	if err := auth.Register(first); err != nil {
		t.Fatalf("register: %v", err)
	}

	second := &model.User{Name: "B", Email: "dup@example.com", Password: "password456"}
	err := auth.Register(second)
	if !errors.Is(err, util.ErrEmailRegistered) {
		t.Fatalf("expected ErrEmailRegistered, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	auth := newAuthService(t)

	user := &model.User{Name: "A", Email: "a@example.com", Password: "password123"}
	if err := auth.Register(user); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := auth.Login("a@example.com", "nope"); err == nil {
		t.Fatal("expected login with wrong password to fail")
	}
	if _, err := auth.Login("missing@example.com", "password123"); err == nil {
		t.Fatal("expected login with unknown email to fail")
	}
}
