package service

import (
	"context"
	"time"

	"fertilabel/internal/config"
	"fertilabel/internal/dto"
	"fertilabel/internal/model"
	"fertilabel/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Operator roles.
const (
	RoleOperator = "operador"
	RoleAdmin    = "administrador"
)

const bcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	// EnsureOperator creates or refreshes an operator account (used by cmd/seedoperator).
	EnsureOperator(ctx context.Context, username, name, password, role string) (*dto.OperatorResponse, error)
}

type authService struct {
	repo repository.OperatorRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.OperatorRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	op, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(op)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	idStr, _ := claims["user_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	op, err := s.repo.FindByID(ctx, id)
	if err != nil || !op.Active {
		return nil, ErrInvalidToken
	}
	return s.issue(op)
}

func (s *authService) EnsureOperator(ctx context.Context, username, name, password, role string) (*dto.OperatorResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	op := &model.Operator{
		ID:           uuid.New(),
		Username:     username,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	if err := s.repo.Upsert(ctx, op); err != nil {
		return nil, err
	}
	resp := toOperatorResponse(op)
	return &resp, nil
}

func (s *authService) issue(op *model.Operator) (*dto.LoginResponse, error) {
	access, err := s.generateToken(op, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(op, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Operator:     toOperatorResponse(op),
	}, nil
}

func (s *authService) generateToken(op *model.Operator, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  op.ID.String(),
		"username": op.Username,
		"role":     op.Role,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
}

func toOperatorResponse(op *model.Operator) dto.OperatorResponse {
	return dto.OperatorResponse{
		ID:       op.ID.String(),
		Username: op.Username,
		Name:     op.Name,
		Role:     op.Role,
	}
}
