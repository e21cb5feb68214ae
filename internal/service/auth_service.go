package service

import (
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService valida credenciales del administrador configurado por
// entorno y emite tokens a traves del TokenService.
type AuthService struct {
	username     string
	passwordHash string
	tokens       *TokenService
	logger       *zap.Logger
}

func NewAuthService(username, passwordHash string, tokens *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		username:     username,
		passwordHash: passwordHash,
		tokens:       tokens,
		logger:       logger,
	}
}

// Login compara las credenciales contra el hash bcrypt configurado.
// The bcrypt comparison runs even on a username mismatch so both
// failure paths cost the same.
func (s *AuthService) Login(username, password string) (TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return TokenPair{}, ErrInvalidCredentials
	}

	hash := s.passwordHash
	if username != s.username {
		hash = "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinval"
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil || username != s.username {
		s.logger.Warn("admin login rejected", zap.String("username", username))
		return TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.GeneratePair(username, "admin")
	if err != nil {
		return TokenPair{}, err
	}
	s.logger.Info("admin login accepted", zap.String("username", username))
	return pair, nil
}

// Refresh rota un refresh token vigente.
func (s *AuthService) Refresh(refreshToken string) (TokenPair, error) {
	pair, err := s.tokens.RefreshPair(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	return pair, nil
}

// Logout revoca el refresh token.
func (s *AuthService) Logout(refreshToken string) error {
	return s.tokens.RevokeRefresh(refreshToken)
}

// HashPassword genera un hash bcrypt para seeding de credenciales.
func HashPassword(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
