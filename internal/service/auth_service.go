package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/notsura/agro/config"
	"github.com/notsura/agro/internal/dto"
	"github.com/notsura/agro/internal/model"
	"github.com/notsura/agro/internal/repository"
	pkgerrors "github.com/notsura/agro/pkg/errors"
	"github.com/notsura/agro/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserBlocked        = errors.New("account is blocked")
)

// TokenBlacklist 登出后使 Token 失效，由 pkg/redis.Client 实现
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService 认证业务接口
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Logout 将 JTI 加入黑名单直至 Token 过期
	Logout(ctx context.Context, jti string, expiresAt time.Time) error
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例，blacklist 可为 nil
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────────────────────── Signup ──────────────────────

func (s *authService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Email:        email,
		Fullname:     strings.TrimSpace(req.Fullname),
		PasswordHash: string(hash),
		Role:         model.RoleFarmer,
		Status:       model.UserStatusActive,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("新用户注册", zap.String("user_id", user.UserID))
	resp := toUserResponse(user)
	return &resp, nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 被封禁用户不签发 Token
	if user.IsBlocked() {
		return nil, ErrUserBlocked
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:        toUserResponse(user),
	}, nil
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.blacklist == nil || jti == "" {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:       u.UserID,
		Email:    u.Email,
		Fullname: u.Fullname,
		Role:     u.Role,
		Status:   u.Status,
	}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return resp
}
