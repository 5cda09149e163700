package auth

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/billed-app/bill-service/internal"
)

// EmployeeDirectory resolves an employee's stored password hash. The service
// only needs enough identity to bootstrap a session; where employees
// actually live is the caller's concern.
type EmployeeDirectory interface {
	PasswordHash(email string) (string, bool)
}

// StaticDirectory serves employees from configuration.
type StaticDirectory map[string]string

func (d StaticDirectory) PasswordHash(email string) (string, bool) {
	hash, ok := d[email]
	return hash, ok
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTTokenGenerator signs and validates HS256 access tokens.
type JWTTokenGenerator struct {
	Secret         []byte
	AccessTokenTTL time.Duration
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &JWTTokenGenerator{
		Secret:         []byte(secret),
		AccessTokenTTL: ttl,
	}
}

func (j *JWTTokenGenerator) GenerateAccessToken(email string) (string, time.Time, error) {
	expiresAt := time.Now().Add(j.AccessTokenTTL)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (j *JWTTokenGenerator) ValidateAccessToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return j.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", internal.ErrTokenExpired
		}
		return "", internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", internal.ErrInvalidToken
	}
	return claims.Email, nil
}

// Service authenticates employees and issues session tokens.
type Service struct {
	directory EmployeeDirectory
	tokens    *JWTTokenGenerator
	logger    *slog.Logger
}

func NewService(directory EmployeeDirectory, tokens *JWTTokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		directory: directory,
		tokens:    tokens,
		logger:    logger,
	}
}

// Authenticate validates credentials and returns an access token.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidCredentials)
	}

	storedHash, ok := s.directory.PasswordHash(dto.Email)
	if !ok {
		s.logger.Warn("login for unknown employee", "email", dto.Email)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login with wrong password", "email", dto.Email)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	accessToken, expiresAt, err := s.tokens.GenerateAccessToken(dto.Email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to generate token", err)
	}

	s.logger.Info("employee logged in", "email", dto.Email)

	return AuthTokens{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
	}, nil
}

// ValidateAccessToken returns the employee email a token was issued for.
func (s *Service) ValidateAccessToken(token string) (string, error) {
	return s.tokens.ValidateAccessToken(token)
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
