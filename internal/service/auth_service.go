package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/auth"
	"github.com/kovzhu/mysite/internal/config"
	"github.com/kovzhu/mysite/internal/models"
	"github.com/kovzhu/mysite/internal/repository"
)

type AuthService interface {
	Register(ctx context.Context, username, password, confirmPassword string) (*models.Account, error)
	Login(ctx context.Context, username, password string) (*models.Account, string, string, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*models.Account, string, string, error)
	CallerFromToken(tokenString string) (auth.Caller, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, cfg: cfg}
}

// Register creates an account at the default reader tier.
func (s *authService) Register(ctx context.Context, username, password, confirmPassword string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", apperr.ErrValidation)
	}
	if password != confirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", apperr.ErrValidation)
	}

	if existing, err := s.userRepo.GetUserByUsername(ctx, username); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: username %s already exists", apperr.ErrValidation, username)
	}

	user := &models.Account{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Role:     models.RoleReader,
		IsActive: true,
	}

	if err := s.userRepo.CreateUser(ctx, user, password); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.Account, string, string, error) {
	user, err := s.userRepo.VerifyPassword(ctx, username, password)
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: invalid username or password", apperr.ErrValidation)
	}
	if !user.IsActive {
		return nil, "", "", fmt.Errorf("%w: account is deactivated", apperr.ErrForbidden)
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", "", err
	}

	refreshToken, refreshTokenExpiry := s.generateRefreshToken()
	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, refreshToken, refreshTokenExpiry); err != nil {
		return nil, "", "", err
	}

	return user, accessToken, refreshToken, nil
}

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*models.Account, string, string, error) {
	user, err := s.userRepo.GetUserByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, "", "", fmt.Errorf("%w: invalid refresh token", apperr.ErrUnauthenticated)
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, "", "", err
	}

	newRefreshToken, refreshTokenExpiry := s.generateRefreshToken()
	if err := s.userRepo.UpdateRefreshToken(ctx, user.UserID, newRefreshToken, refreshTokenExpiry); err != nil {
		return nil, "", "", err
	}

	return user, accessToken, newRefreshToken, nil
}

func (s *authService) generateAccessToken(user *models.Account) (string, error) {
	claims := jwt.MapClaims{
		"userId":   user.UserID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.cfg.AccessTokenDuration).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return tokenString, nil
}

func (s *authService) generateRefreshToken() (string, time.Time) {
	return uuid.New().String(), time.Now().Add(s.cfg.RefreshTokenDuration)
}

// CallerFromToken validates an access token and extracts the caller
// identity the access policy works with.
func (s *authService) CallerFromToken(tokenString string) (auth.Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil || !token.Valid {
		return auth.Caller{}, fmt.Errorf("%w: invalid token", apperr.ErrUnauthenticated)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Caller{}, fmt.Errorf("%w: invalid token claims", apperr.ErrUnauthenticated)
	}

	userID, ok1 := claims["userId"].(string)
	username, ok2 := claims["username"].(string)
	role, ok3 := claims["role"].(string)
	if !ok1 || !ok2 || !ok3 {
		return auth.Caller{}, fmt.Errorf("%w: malformed token claims", apperr.ErrUnauthenticated)
	}

	return auth.Caller{UserID: userID, Username: username, Role: role}, nil
}
