package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/apperr"
	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/models"
)

const tokenTTL = 24 * time.Hour

// AuthService handles registration, login and token validation. The
// redis client backs the logout denylist; a nil client disables logout
// revocation (used in tests).
type AuthService struct {
	db        *gorm.DB
	redis     *redis.Client
	jwtSecret string
}

func NewAuthService(db *gorm.DB, redisClient *redis.Client, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		redis:     redisClient,
		jwtSecret: jwtSecret,
	}
}

type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// Register creates a user and returns a signed token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if in.Email == "" || in.Username == "" || in.Password == "" {
		return "", apperr.Validation("email, username and password are required")
	}

	var existing models.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", in.Email, in.Username).
		First(&existing).Error
	if err == nil {
		return "", apperr.Conflict("user with this email or username already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.Internal("failed to check existing user", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Internal("failed to hash password", err)
	}

	user := models.User{
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hashedPassword),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", apperr.Conflict("user with this email or username already exists")
		}
		return "", apperr.Internal("failed to create user", err)
	}

	return s.generateToken(&user)
}

// Login checks the credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return "", apperr.Validation("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperr.Validation("invalid credentials")
	}

	return s.generateToken(&user)
}

// Logout revokes the token by denylisting its id until it would have
// expired anyway.
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return apperr.Validation("invalid token")
	}
	if s.redis == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, denylistKey(claims.TokenID), "1", ttl).Err(); err != nil {
		return apperr.Internal("failed to revoke token", err)
	}
	return nil
}

// ValidateToken implements middleware.TokenValidator.
func (s *AuthService) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	claims, err := s.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		revoked, err := s.redis.Exists(context.Background(), denylistKey(claims.TokenID)).Result()
		if err == nil && revoked > 0 {
			return nil, errors.New("token has been revoked")
		}
	}

	return claims, nil
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}
	return &user, nil
}

// ListUsers returns all users, ordered the way the profile pages list
// them.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("last_name, first_name").Find(&users).Error; err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}
	return users, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"jti":      uuid.New().String(),
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", apperr.Internal("failed to sign token", err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString string) (*middleware.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	username, _ := claims["username"].(string)
	tokenID, _ := claims["jti"].(string)

	var expiresAt time.Time
	if exp, ok := claims["exp"].(float64); ok {
		expiresAt = time.Unix(int64(exp), 0)
	}

	return &middleware.TokenClaims{
		UserID:    userID,
		Username:  username,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}

func denylistKey(tokenID string) string {
	return fmt.Sprintf("auth:denylist:%s", tokenID)
}
