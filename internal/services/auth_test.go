package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/config"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/models"
	"github.com/Tharnickanth/credit-ratings-model-sub000/internal/utils"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(openTestDB(t), &config.JWTConfig{ExpireHour: 2})
}

func TestAuthService_CreateAdminIfNotExists(t *testing.T) {
	svc := newTestAuthService(t)

	if err := svc.CreateAdminIfNotExists("secret1"); err != nil {
		t.Fatalf("CreateAdminIfNotExists() error = %v", err)
	}
	// second call is a no-op
	if err := svc.CreateAdminIfNotExists("other"); err != nil {
		t.Fatalf("CreateAdminIfNotExists() error = %v", err)
	}

	var count int64
	svc.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count != 1 {
		t.Errorf("admin count = %d, expected 1", count)
	}

	if _, err := svc.Login(context.Background(), &LoginRequest{Username: "admin", Password: "secret1"}); err != nil {
		t.Errorf("Login() with the first password error = %v", err)
	}
}

func TestAuthService_CreateAdminIfNotExists_StoredCredentials(t *testing.T) {
	tests := []struct {
		name     string
		password string
		accepts  string
	}{
		{"configured password", "bootstrap-Secret9", "bootstrap-Secret9"},
		{"empty falls back to admin", "", "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestAuthService(t)
			if err := svc.CreateAdminIfNotExists(tt.password); err != nil {
				t.Fatalf("CreateAdminIfNotExists() error = %v", err)
			}

			var admin models.User
			if err := svc.db.Where("username = ?", "admin").First(&admin).Error; err != nil {
				t.Fatalf("load admin error = %v", err)
			}
			if admin.Role != models.RoleAdmin || !admin.IsActive {
				t.Errorf("admin = %s/%v, expected active %s", admin.Role, admin.IsActive, models.RoleAdmin)
			}
			if admin.Password == tt.accepts {
				t.Error("admin password stored in plaintext")
			}
			if !utils.CheckPassword(tt.accepts, admin.Password) {
				t.Errorf("CheckPassword(%q) = false, expected true", tt.accepts)
			}
			if utils.CheckPassword(tt.accepts+"x", admin.Password) {
				t.Errorf("CheckPassword(%q) = true, expected false", tt.accepts+"x")
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()
	if _, err := svc.CreateUser(ctx, &CreateUserRequest{Username: "carol", Password: "hunter22", Role: models.RoleAssessor}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	resp, err := svc.Login(ctx, &LoginRequest{Username: "carol", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	claims, err := utils.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Username != "carol" || claims.Role != models.RoleAssessor {
		t.Errorf("claims = %+v", claims)
	}
	if resp.User.LastLogin == nil {
		t.Error("LastLogin should be set")
	}

	tests := []struct {
		name     string
		username string
		password string
		expected error
	}{
		{"wrong password", "carol", "nope", ErrInvalidCredentials},
		{"unknown user", "dave", "hunter22", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, &LoginRequest{Username: tt.username, Password: tt.password})
			if !errors.Is(err, tt.expected) {
				t.Errorf("Login() error = %v, expected %v", err, tt.expected)
			}
		})
	}
}

func TestAuthService_LoginDisabled(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()
	user, err := svc.CreateUser(ctx, &CreateUserRequest{Username: "bob", Password: "hunter22", Role: models.RoleApprover})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	svc.db.Model(user).Update("is_active", false)

	if _, err := svc.Login(ctx, &LoginRequest{Username: "bob", Password: "hunter22"}); !errors.Is(err, ErrUserDisabled) {
		t.Errorf("Login() error = %v, expected %v", err, ErrUserDisabled)
	}
}

func TestAuthService_CreateUser_Validation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()
	if _, err := svc.CreateUser(ctx, &CreateUserRequest{Username: "alice", Password: "hunter22", Role: models.RoleAuthor}); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if _, err := svc.CreateUser(ctx, &CreateUserRequest{Username: "alice", Password: "hunter22", Role: models.RoleAuthor}); !IsValidation(err) {
		t.Errorf("duplicate CreateUser() error = %v, expected ValidationError", err)
	}
	if _, err := svc.CreateUser(ctx, &CreateUserRequest{Username: "erin", Password: "hunter22", Role: "auditor"}); !IsValidation(err) {
		t.Errorf("CreateUser() with bad role error = %v, expected ValidationError", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()
	user, err := svc.CreateUser(ctx, &CreateUserRequest{Username: "alice", Password: "hunter22", Role: models.RoleAuthor})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, &ChangePasswordRequest{OldPassword: "wrong", NewPassword: "newpass1"}); err == nil {
		t.Error("ChangePassword() with a wrong old password should fail")
	}
	if err := svc.ChangePassword(ctx, user.ID, &ChangePasswordRequest{OldPassword: "hunter22", NewPassword: "newpass1"}); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if _, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "newpass1"}); err != nil {
		t.Errorf("Login() with the new password error = %v", err)
	}
}

func TestLoginRequest_Structure(t *testing.T) {
	req := LoginRequest{Username: "testuser", Password: "password123"}
	if req.Username != "testuser" {
		t.Errorf("Username = %q, expected %q", req.Username, "testuser")
	}
	if req.Password != "password123" {
		t.Errorf("Password = %q, expected %q", req.Password, "password123")
	}
}
