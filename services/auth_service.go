package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"driverrating/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenCachePrefix = "authtoken:"
	tokenCacheTTL    = 2 * time.Hour
	sessionTTL       = 24 * time.Hour
)

type AuthService struct {
	db        *gorm.DB
	redis     *redis.Client
	jwtSecret string
}

// NewAuthService wires the credential store. The Redis client is optional:
// when nil, token lookups always go to the database.
func NewAuthService(db *gorm.DB, redisClient *redis.Client, jwtSecret string) *AuthService {
	return &AuthService{db: db, redis: redisClient, jwtSecret: jwtSecret}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
	IsActive  *bool  `json:"is_active"`
	Password  string `json:"password" binding:"required"`
}

type sessionClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// Login checks the credentials, requires an active staff user, and returns
// the user together with their reusable API token. The token is created on
// first login and reused afterwards.
func (s *AuthService) Login(username, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.IsActive {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.IsStaff {
		return nil, "", ErrInvalidCredentials
	}

	var token models.AuthToken
	err := s.db.Where("user_id = ?", user.ID).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		token = models.AuthToken{Key: generateTokenKey(), UserID: user.ID}
		err = s.db.Create(&token).Error
	}
	if err != nil {
		return nil, "", err
	}

	s.cacheToken(token.Key, user.ID)
	return &user, token.Key, nil
}

// Authenticate resolves an opaque API token to its user.
func (s *AuthService) Authenticate(key string) (*models.User, error) {
	if key == "" {
		return nil, ErrInvalidCredentials
	}

	if userID, ok := s.cachedTokenUser(key); ok {
		user, err := s.activeUserByID(userID)
		if err == nil {
			return user, nil
		}
	}

	var token models.AuthToken
	if err := s.db.Where("key = ?", key).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	user, err := s.activeUserByID(token.UserID)
	if err != nil {
		return nil, err
	}
	s.cacheToken(key, user.ID)
	return user, nil
}

// SessionToken issues the signed cookie value used by the browser session
// path into the admin endpoints.
func (s *AuthService) SessionToken(user *models.User) (string, error) {
	claims := sessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// AuthenticateSession resolves a session cookie value to its user.
func (s *AuthService) AuthenticateSession(tokenStr string) (*models.User, error) {
	if tokenStr == "" {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.activeUserByID(claims.UserID)
}

func (s *AuthService) GetUsers() ([]models.User, error) {
	var users []models.User
	err := s.db.Order("username").Find(&users).Error
	return users, err
}

func (s *AuthService) CreateUser(req *CreateUserRequest) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		IsStaff:      req.IsStaff,
		IsActive:     true,
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureSuperuser is the idempotent bootstrap run at startup: with admin
// credentials configured, it creates the account if missing, and otherwise
// re-asserts the staff/superuser flags and the configured password. Safe to
// run any number of times; missing configuration is only warned about.
func (s *AuthService) EnsureSuperuser(username, password, email string) error {
	if username == "" || password == "" {
		logrus.Warn("ADMIN_USERNAME and ADMIN_PASSWORD must be set to bootstrap a superuser")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var user models.User
	err = s.db.Where("username = ?", username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			IsStaff:      true,
			IsSuperuser:  true,
			IsActive:     true,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return err
		}
		logrus.Infof("created superuser %q", username)
	case err != nil:
		return err
	default:
		user.IsStaff = true
		user.IsSuperuser = true
		user.IsActive = true
		user.PasswordHash = string(hash)
		if email != "" && user.Email == "" {
			user.Email = email
		}
		if err := s.db.Save(&user).Error; err != nil {
			return err
		}
		logrus.Infof("updated superuser %q", username)
	}
	return nil
}

func (s *AuthService) activeUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *AuthService) cacheToken(key string, userID uint) {
	if s.redis == nil {
		return
	}
	err := s.redis.Set(context.Background(), tokenCachePrefix+key, userID, tokenCacheTTL).Err()
	if err != nil {
		logrus.Warnf("failed to cache auth token: %v", err)
	}
}

func (s *AuthService) cachedTokenUser(key string) (uint, bool) {
	if s.redis == nil {
		return 0, false
	}
	userID, err := s.redis.Get(context.Background(), tokenCachePrefix+key).Uint64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.Warnf("redis error looking up auth token: %v", err)
		}
		return 0, false
	}
	return uint(userID), true
}

// generateTokenKey returns a 40-character hex API token key.
func generateTokenKey() string {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return hex.EncodeToString(bytes)
}
