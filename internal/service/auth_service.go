package service

import (
	"context"
	"errors"
	"time"

	"vpark/internal/config"
	"vpark/internal/db"
	"vpark/internal/entities"
	"vpark/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrMissingFields      = errors.New("user id, name and password are required")
)

type AuthService interface {
	Register(ctx context.Context, req entities.SignupRequest) error
	Login(ctx context.Context, userID, password string) (string, error)
	Profile(ctx context.Context, userID string) (*entities.ProfileResponse, error)
}

type authService struct {
	users  repository.UserRepository
	secret string
	ttl    time.Duration
}

func NewAuthService(users repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		users:  users,
		secret: cfg.JWTSecret,
		ttl:    cfg.TokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, req entities.SignupRequest) error {
	if req.UserID == "" || req.UserName == "" || req.Password == "" {
		return ErrMissingFields
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &db.User{
		UserID:       req.UserID,
		UserName:     req.UserName,
		PasswordHash: string(hash),
		Email:        req.Email,
		Address:      req.Address,
		VehicleNo:    req.VehicleNo,
		MobileNo:     req.MobileNo,
		VehicleType:  req.VehicleType,
	}
	return s.users.Create(ctx, user)
}

func (s *authService) Login(ctx context.Context, userID, password string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub":  user.UserID,
		"name": user.UserName,
		"exp":  time.Now().Add(s.ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *authService) Profile(ctx context.Context, userID string) (*entities.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &entities.ProfileResponse{
		UserID:      user.UserID,
		UserName:    user.UserName,
		Email:       user.Email,
		Address:     user.Address,
		VehicleNo:   user.VehicleNo,
		MobileNo:    user.MobileNo,
		VehicleType: user.VehicleType,
		CreatedAt:   user.CreatedAt,
	}, nil
}
