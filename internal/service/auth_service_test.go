package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/notsura/agro/config"
	"github.com/notsura/agro/internal/dto"
	"github.com/notsura/agro/internal/model"
	"github.com/notsura/agro/pkg/jwt"
)

func setupTestAuthService(blacklist TokenBlacklist) (AuthService, *testRepos, *jwt.Manager) {
	repo, m := newTestRepository()
	jwtMgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-1234567890",
		AccessTokenTTL: time.Hour,
	})
	svc := NewAuthService(&config.Config{}, repo, jwtMgr, blacklist, zap.NewNop())
	return svc, m, jwtMgr
}

func seedUser(t *testing.T, m *testRepos, email, password, status string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("生成密码哈希失败: %v", err)
	}
	u := &model.User{
		Email:        email,
		Fullname:     "Test Farmer",
		PasswordHash: string(hash),
		Role:         model.RoleFarmer,
		Status:       status,
	}
	if err := m.user.Create(context.Background(), u); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}

// ────────────────────── Signup ──────────────────────

func TestAuthService_Signup(t *testing.T) {
	svc, m, _ := setupTestAuthService(nil)

	resp, err := svc.Signup(context.Background(), &dto.SignupRequest{
		Email:    "  Farmer@Example.COM ",
		Password: "secret123",
		Fullname: " Ravi ",
	})
	if err != nil {
		t.Fatalf("期望无错误，实际: %v", err)
	}
	if resp.Email != "farmer@example.com" {
		t.Errorf("期望邮箱规范化为小写，实际 %s", resp.Email)
	}
	if resp.Fullname != "Ravi" {
		t.Errorf("期望去除首尾空白，实际 %q", resp.Fullname)
	}
	if resp.Role != model.RoleFarmer || resp.Status != model.UserStatusActive {
		t.Errorf("期望默认 farmer/active，实际 %s/%s", resp.Role, resp.Status)
	}

	stored := m.user.users[resp.ID]
	if stored == nil {
		t.Fatal("期望用户已写入")
	}
	if stored.PasswordHash == "secret123" {
		t.Error("密码不应明文存储")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")); err != nil {
		t.Errorf("期望哈希可校验，实际: %v", err)
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc, _, _ := setupTestAuthService(nil)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, &dto.SignupRequest{Email: "a@b.com", Password: "secret123"}); err != nil {
		t.Fatalf("期望无错误，实际: %v", err)
	}
	_, err := svc.Signup(ctx, &dto.SignupRequest{Email: "A@B.com", Password: "other123"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际 %v", err)
	}
}

// ────────────────────── Login ──────────────────────

func TestAuthService_Login(t *testing.T) {
	svc, m, jwtMgr := setupTestAuthService(nil)
	u := seedUser(t, m, "farmer@example.com", "secret123", model.UserStatusActive)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "Farmer@Example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("期望无错误，实际: %v", err)
	}
	if resp.ExpiresIn != 3600 {
		t.Errorf("期望有效期 3600 秒，实际 %d", resp.ExpiresIn)
	}
	if resp.User.ID != u.UserID {
		t.Errorf("期望返回登录用户，实际 %s", resp.User.ID)
	}

	claims, err := jwtMgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("期望 Token 可解析，实际: %v", err)
	}
	if claims.UserID != u.UserID || claims.Role != model.RoleFarmer {
		t.Errorf("Token 声明不符: %+v", claims)
	}
	if claims.ID == "" {
		t.Error("期望 Token 带有 JTI")
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	svc, m, _ := setupTestAuthService(nil)
	seedUser(t, m, "farmer@example.com", "secret123", model.UserStatusActive)

	tests := []struct {
		name string
		req  dto.LoginRequest
	}{
		{"密码错误", dto.LoginRequest{Email: "farmer@example.com", Password: "wrong"}},
		{"邮箱不存在", dto.LoginRequest{Email: "ghost@example.com", Password: "secret123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tt.req)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("期望 ErrInvalidCredentials，实际 %v", err)
			}
		})
	}
}

func TestAuthService_Login_Blocked(t *testing.T) {
	svc, m, _ := setupTestAuthService(nil)
	seedUser(t, m, "farmer@example.com", "secret123", model.UserStatusBlocked)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "farmer@example.com", Password: "secret123"})
	if !errors.Is(err, ErrUserBlocked) {
		t.Errorf("期望 ErrUserBlocked，实际 %v", err)
	}
}

// ────────────────────── Logout / Me ──────────────────────

func TestAuthService_Logout(t *testing.T) {
	bl := &mockBlacklist{}
	svc, _, _ := setupTestAuthService(bl)

	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(30*time.Minute)); err != nil {
		t.Fatalf("期望无错误，实际: %v", err)
	}
	ttl, ok := bl.tokens["jti-1"]
	if !ok {
		t.Fatal("期望 JTI 已加入黑名单")
	}
	if ttl <= 0 || ttl > 30*time.Minute {
		t.Errorf("期望 TTL 不超过剩余有效期，实际 %v", ttl)
	}
}

func TestAuthService_Logout_WithoutBlacklist(t *testing.T) {
	svc, _, _ := setupTestAuthService(nil)

	if err := svc.Logout(context.Background(), "jti-1", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("期望未配置黑名单时静默成功，实际: %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	svc, m, _ := setupTestAuthService(nil)
	u := seedUser(t, m, "farmer@example.com", "secret123", model.UserStatusActive)
	ctx := context.Background()

	resp, err := svc.Me(ctx, u.UserID)
	if err != nil {
		t.Fatalf("期望无错误，实际: %v", err)
	}
	if resp.Email != "farmer@example.com" {
		t.Errorf("期望邮箱 farmer@example.com，实际 %s", resp.Email)
	}

	if _, err := svc.Me(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际 %v", err)
	}
}
