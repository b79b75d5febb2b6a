package service

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/phimart/phimart/internal/config"
	"github.com/phimart/phimart/internal/models"
	"github.com/phimart/phimart/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 用户认证服务
type AuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewAuthService 创建用户认证服务
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// JWTClaims 用户 JWT 声明
type JWTClaims struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	IsStaff bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// RegisterInput 注册输入
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Address     string
	PhoneNumber string
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// Register 注册新用户
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, ErrInvalidCredentials
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Address:      strings.TrimSpace(input.Address),
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 校验凭据并签发 JWT
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(user)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// GetUser 获取用户信息
func (s *AuthService) GetUser(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GenerateJWT 生成用户 JWT Token
func (s *AuthService) GenerateJWT(user *models.User) (string, time.Time, error) {
	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	expiresAt := time.Now().Add(time.Duration(expireHours) * time.Hour)
	claims := JWTClaims{
		UserID:  user.ID,
		Email:   user.Email,
		IsStaff: user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseJWT 解析用户 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &JWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", ErrInvalidCredentials
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", ErrInvalidCredentials
	}
	return trimmed, nil
}
