package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/foody-next/internal/cache"
	"github.com/foody-next/internal/config"
	"github.com/foody-next/internal/logger"
	"github.com/foody-next/internal/models"
	"github.com/foody-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const apiKeyBytes = 24

// MerchantAuthenticator 校验租户与凭证是否匹配
type MerchantAuthenticator interface {
	Authenticate(ctx context.Context, restaurantID uint, credential string) error
}

// MerchantAuthService 商户认证服务
type MerchantAuthService struct {
	cfg          *config.Config
	merchantRepo repository.MerchantRepository
	storeTimeout time.Duration
	now          func() time.Time
}

// NewMerchantAuthService 创建商户认证服务
func NewMerchantAuthService(cfg *config.Config, merchantRepo repository.MerchantRepository) *MerchantAuthService {
	return &MerchantAuthService{
		cfg:          cfg,
		merchantRepo: merchantRepo,
		storeTimeout: cfg.Offer.StoreTimeout(),
		now:          time.Now,
	}
}

// MerchantSession 注册或登录后返回的凭证
type MerchantSession struct {
	RestaurantID uint   `json:"restaurant_id"`
	APIKey       string `json:"api_key"`
	AccessToken  string `json:"access_token"`
	ExpiresAt    string `json:"expires_at"`
}

// RegisterMerchantInput 注册参数
type RegisterMerchantInput struct {
	Name     string
	Login    string
	Password string
	City     string
}

// MerchantClaims 商户 JWT 声明
type MerchantClaims struct {
	MerchantID   uint   `json:"restaurant_id"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// HashPassword 使用 bcrypt 加密密码
func (s *MerchantAuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *MerchantAuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword 校验密码是否符合策略
func (s *MerchantAuthService) ValidatePassword(password string) error {
	return validatePassword(s.cfg.Security.PasswordPolicy, password)
}

// NormalizeLogin 登录名只保留数字
func NormalizeLogin(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Register 注册商户
func (s *MerchantAuthService) Register(ctx context.Context, input RegisterMerchantInput) (*MerchantSession, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrMerchantNameRequired
	}
	login := NormalizeLogin(input.Login)
	if login == "" {
		return nil, ErrLoginRequired
	}
	if err := s.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	existing, err := s.merchantRepo.GetByLogin(storeCtx, login)
	if err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	if existing != nil {
		return nil, ErrLoginExists
	}

	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	apiKey, err := generateAPIKey()
	if err != nil {
		return nil, err
	}
	phone := login
	merchant := &models.Merchant{
		Name:         name,
		Login:        login,
		PasswordHash: hash,
		APIKey:       apiKey,
		Phone:        &phone,
		City:         normalizeOptionalText(&input.City),
	}
	if err := s.merchantRepo.Create(storeCtx, merchant); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrLoginExists
		}
		return nil, wrapStoreError(storeCtx, err)
	}
	return s.issueSession(ctx, merchant)
}

// Login 商户登录
func (s *MerchantAuthService) Login(ctx context.Context, login, password string) (*MerchantSession, error) {
	login = NormalizeLogin(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	merchant, err := s.merchantRepo.GetByLogin(storeCtx, login)
	if err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	if merchant == nil {
		return nil, ErrInvalidCredentials
	}
	if err := s.VerifyPassword(merchant.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueSession(ctx, merchant)
}

func (s *MerchantAuthService) issueSession(ctx context.Context, merchant *models.Merchant) (*MerchantSession, error) {
	token, expiresAt, err := s.GenerateJWT(merchant)
	if err != nil {
		return nil, err
	}
	if err := cache.SetMerchantAuthState(ctx, cache.BuildMerchantAuthState(merchant)); err != nil {
		logger.Warnw("merchant_auth_state_cache_set_failed", "restaurant_id", merchant.ID, "error", err)
	}
	return &MerchantSession{
		RestaurantID: merchant.ID,
		APIKey:       merchant.APIKey,
		AccessToken:  token,
		ExpiresAt:    FormatOfferTime(expiresAt),
	}, nil
}

// GenerateJWT 生成商户访问令牌
func (s *MerchantAuthService) GenerateJWT(merchant *models.Merchant) (string, time.Time, error) {
	now := s.now()
	hours := s.cfg.JWT.ExpireHours
	if hours <= 0 {
		hours = 72
	}
	expiresAt := now.Add(time.Duration(hours) * time.Hour)

	claims := MerchantClaims{
		MerchantID:   merchant.ID,
		TokenVersion: merchant.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析商户访问令牌
func (s *MerchantAuthService) ParseJWT(tokenString string) (*MerchantClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &MerchantClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims, ok := token.Claims.(*MerchantClaims); ok && token.Valid && claims.MerchantID != 0 {
		return claims, nil
	}
	return nil, ErrInvalidToken
}

// LooksLikeJWT 粗略判断凭证是否为 JWT
func LooksLikeJWT(credential string) bool {
	return strings.Count(credential, ".") == 2
}

// Authenticate 使用 API Key 或 JWT 校验租户
func (s *MerchantAuthService) Authenticate(ctx context.Context, restaurantID uint, credential string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return ErrCredentialRequired
	}
	if restaurantID == 0 {
		return ErrTenantRequired
	}

	state, err := s.loadAuthState(ctx, restaurantID)
	if err != nil {
		return err
	}
	if state == nil {
		return ErrInvalidCredentials
	}

	if LooksLikeJWT(credential) {
		claims, err := s.ParseJWT(credential)
		if err != nil {
			return err
		}
		if claims.MerchantID != restaurantID {
			return ErrInvalidToken
		}
		if claims.TokenVersion != state.TokenVersion {
			return ErrTokenRevoked
		}
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(state.APIKey), []byte(credential)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

// loadAuthState 优先读取缓存，未命中时查询数据库并回写
func (s *MerchantAuthService) loadAuthState(ctx context.Context, merchantID uint) (*cache.MerchantAuthState, error) {
	state, hit, err := cache.GetMerchantAuthState(ctx, merchantID)
	if err != nil {
		logger.Warnw("merchant_auth_state_cache_get_failed", "restaurant_id", merchantID, "error", err)
	} else if hit && state != nil {
		return state, nil
	}

	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()
	merchant, err := s.merchantRepo.GetByID(storeCtx, merchantID)
	if err != nil {
		return nil, wrapStoreError(storeCtx, err)
	}
	if merchant == nil {
		return nil, nil
	}
	state = cache.BuildMerchantAuthState(merchant)
	if err := cache.SetMerchantAuthState(ctx, state); err != nil {
		logger.Warnw("merchant_auth_state_cache_set_failed", "restaurant_id", merchantID, "error", err)
	}
	return state, nil
}

// ChangePassword 修改密码，旧令牌随令牌版本递增失效
func (s *MerchantAuthService) ChangePassword(ctx context.Context, merchantID uint, oldPassword, newPassword string) error {
	if merchantID == 0 {
		return ErrTenantRequired
	}
	storeCtx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	merchant, err := s.merchantRepo.GetByID(storeCtx, merchantID)
	if err != nil {
		return wrapStoreError(storeCtx, err)
	}
	if merchant == nil {
		return ErrNotFound
	}
	if err := s.VerifyPassword(merchant.PasswordHash, oldPassword); err != nil {
		return ErrInvalidPassword
	}
	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.merchantRepo.UpdatePassword(storeCtx, merchantID, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return wrapStoreError(storeCtx, err)
	}
	if err := cache.DelMerchantAuthState(ctx, merchantID); err != nil {
		logger.Warnw("merchant_auth_state_cache_del_failed", "restaurant_id", merchantID, "error", err)
	}
	return nil
}

func generateAPIKey() (string, error) {
	buf := make([]byte, apiKeyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
