package service

import (
	"context"
	"time"

	"tabsensei-be/internal/config"
	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/model"
	"tabsensei-be/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IPreferenceService interface {
	Get(ctx context.Context, deviceId uuid.UUID) (*dto.PreferenceResponse, error)
	Update(ctx context.Context, deviceId uuid.UUID, req *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error)
}

type preferenceService struct {
	alertRepo repository.AlertRepository
	watchCfg  config.WatchConfig
}

func NewPreferenceService(alertRepo repository.AlertRepository, watchCfg config.WatchConfig) IPreferenceService {
	return &preferenceService{
		alertRepo: alertRepo,
		watchCfg:  watchCfg,
	}
}

// Get returns stored preferences, falling back to server defaults for a
// device that never saved any.
func (s *preferenceService) Get(ctx context.Context, deviceId uuid.UUID) (*dto.PreferenceResponse, error) {
	pref, err := s.alertRepo.GetPreference(ctx, deviceId)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return &dto.PreferenceResponse{
			EmailEnabled:     false,
			DropThresholdPct: s.watchCfg.DropThresholdPct,
			MutedKinds:       []string{},
		}, nil
	}
	return toPreferenceResponse(pref), nil
}

func (s *preferenceService) Update(ctx context.Context, deviceId uuid.UUID, req *dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error) {
	pref, err := s.alertRepo.GetPreference(ctx, deviceId)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		pref = &model.DevicePreference{
			DeviceID:         deviceId,
			DropThresholdPct: s.watchCfg.DropThresholdPct,
		}
	}

	if req.EmailEnabled != nil {
		pref.EmailEnabled = *req.EmailEnabled
	}
	if req.EmailAddress != nil {
		pref.EmailAddress = *req.EmailAddress
	}
	if req.DropThresholdPct != nil {
		pref.DropThresholdPct = *req.DropThresholdPct
	}
	if req.MutedKinds != nil {
		pref.MutedKinds = datatypes.NewJSONSlice(*req.MutedKinds)
	}
	pref.UpdatedAt = time.Now()

	if err := s.alertRepo.SavePreference(ctx, pref); err != nil {
		return nil, err
	}

	return toPreferenceResponse(pref), nil
}

func toPreferenceResponse(pref *model.DevicePreference) *dto.PreferenceResponse {
	muted := make([]string, 0, len(pref.MutedKinds))
	muted = append(muted, pref.MutedKinds...)
	return &dto.PreferenceResponse{
		EmailEnabled:     pref.EmailEnabled,
		EmailAddress:     pref.EmailAddress,
		DropThresholdPct: pref.DropThresholdPct,
		MutedKinds:       muted,
	}
}
