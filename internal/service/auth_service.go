package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"wfm/backend/config"
	"wfm/backend/internal/dto"
	"wfm/backend/internal/repository"
	"wfm/backend/pkg/jwt"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserDisabled       = errors.New("账号已停用")
	ErrWeakPassword       = errors.New("密码长度不能少于 8 位")
	ErrNotRefreshToken    = errors.New("不是有效的刷新令牌")
	ErrWrongOldPassword   = errors.New("原密码错误")
)

// TokenBlacklist 令牌黑名单存储（生产环境为 Redis）
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
	GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    TokenBlacklist
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	deptID := ""
	if user.DepartmentID != nil {
		deptID = *user.DepartmentID
	}
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, deptID)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, deptID, req.RememberMe)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         toUserResponse(user),
	}, nil
}

// ────────────────────── Logout ──────────────────────

// Logout 将当前 Token 加入黑名单直至其自然过期
func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── RefreshToken ──────────────────────

func (s *authService) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrNotRefreshToken
	}

	blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		s.logger.Error("查询黑名单失败", zap.Error(err))
		return nil, err
	}
	if blacklisted {
		return nil, jwt.ErrTokenInvalid
	}

	// 用户状态可能在令牌有效期内变化，刷新时重查
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	// 旧 refresh token 一次性使用，立即拉黑
	if err := s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		s.logger.Warn("旧 RefreshToken 拉黑失败", zap.Error(err))
	}

	deptID := ""
	if user.DepartmentID != nil {
		deptID = *user.DepartmentID
	}
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role, deptID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, deptID, claims.RememberMe)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < 8 {
		return ErrWeakPassword
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedBy = &userID

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新密码失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── GetCurrentUser ──────────────────────

func (s *authService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}
