// FILE: internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tabsensei-be/internal/config"
	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/repository"
	"tabsensei-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Pair(ctx context.Context, req *dto.PairRequest, userAgent string) (*dto.PairResponse, error)
	Heartbeat(ctx context.Context, deviceId uuid.UUID) error
	Unpair(ctx context.Context, deviceId uuid.UUID) error
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	alertRepo  repository.AlertRepository
	authCfg    config.AuthConfig
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, alertRepo repository.AlertRepository, authCfg config.AuthConfig) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		alertRepo:  alertRepo,
		authCfg:    authCfg,
	}
}

// Pair exchanges the pairing code from the extension options page for a
// device record and a long lived JWT. There is no user account behind a
// device; the code is a shared secret for the whole deployment.
func (s *authService) Pair(ctx context.Context, req *dto.PairRequest, userAgent string) (*dto.PairResponse, error) {
	if s.authCfg.PairSecretHash == "" {
		return nil, errors.New("pairing is disabled on this server")
	}

	err := bcrypt.CompareHashAndPassword([]byte(s.authCfg.PairSecretHash), []byte(req.PairCode))
	if err != nil {
		return nil, errors.New("invalid pairing code")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	device := entity.Device{
		Id:         uuid.New(),
		Name:       req.DeviceName,
		UserAgent:  userAgent,
		Email:      req.Email,
		LastSeenAt: &now,
		CreatedAt:  now,
	}
	if req.UserAgent != "" {
		device.UserAgent = req.UserAgent
	}

	if err := uow.DeviceRepository().Create(ctx, &device); err != nil {
		return nil, err
	}

	ttl := time.Duration(s.authCfg.TokenTTLHours) * time.Hour
	expiresAt := time.Now().Add(ttl)

	claims := jwt.MapClaims{
		"device_id": device.Id.String(),
		"exp":       expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret := s.authCfg.JWTSecret
	if secret == "" {
		secret = "default_secret"
	}
	signedToken, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, err
	}

	return &dto.PairResponse{
		DeviceId:  device.Id,
		Token:     signedToken,
		ExpiresAt: expiresAt,
	}, nil
}

// Heartbeat bumps last_seen_at so stale devices can be pruned later.
func (s *authService) Heartbeat(ctx context.Context, deviceId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.DeviceRepository().TouchLastSeen(ctx, deviceId)
}

// Unpair wipes everything the device ever stored, then the device row
// itself. The token is stateless so it keeps verifying until expiry,
// but every route behind it works on data that no longer exists.
// Calling it twice is harmless.
func (s *authService) Unpair(ctx context.Context, deviceId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Children before parents: the embedding and price point wipes
	// resolve their owners through subqueries.
	if err := uow.SessionEmbeddingRepository().DeleteAllByDeviceIdUnscoped(ctx, deviceId); err != nil {
		return fmt.Errorf("unpair embeddings: %w", err)
	}
	if err := uow.TabSessionRepository().DeleteAllByDeviceIdUnscoped(ctx, deviceId); err != nil {
		return fmt.Errorf("unpair sessions: %w", err)
	}
	if err := uow.PricePointRepository().DeleteAllByDeviceIdUnscoped(ctx, deviceId); err != nil {
		return fmt.Errorf("unpair price history: %w", err)
	}
	if err := uow.WatchlistRepository().DeleteAllByDeviceIdUnscoped(ctx, deviceId); err != nil {
		return fmt.Errorf("unpair watchlist: %w", err)
	}
	if err := uow.DeviceRepository().DeleteUnscoped(ctx, deviceId); err != nil {
		return fmt.Errorf("unpair device: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	// Alerts live outside the unit of work. If this fails the orphaned
	// rows are invisible (the device is gone), and retrying the call
	// finishes the cleanup.
	return s.alertRepo.DeleteAllForDevice(ctx, deviceId)
}
