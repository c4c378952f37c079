package implementation

import (
	"context"
	"errors"
	"time"

	"tabsensei-be/internal/model"
	"tabsensei-be/internal/repository"
	"tabsensei-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertRepositoryImpl struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) repository.AlertRepository {
	return &AlertRepositoryImpl{db: db}
}

func (r *AlertRepositoryImpl) CreateAlert(ctx context.Context, alert *model.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *AlertRepositoryImpl) GetAlertsByDeviceID(ctx context.Context, deviceID uuid.UUID, limit, offset int) ([]model.Alert, int64, error) {
	var alerts []model.Alert
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Alert{}).Where("device_id = ?", deviceID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Scopes(scope.OrderByCreatedDesc).
		Limit(limit).
		Offset(offset).
		Find(&alerts).Error

	return alerts, total, err
}

func (r *AlertRepositoryImpl) GetUnreadCount(ctx context.Context, deviceID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Alert{}).
		Where("device_id = ? AND is_read = ?", deviceID, false).
		Count(&count).Error
	return count, err
}

func (r *AlertRepositoryImpl) MarkAsRead(ctx context.Context, alertID uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Alert{}).
		Where("id = ?", alertID).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("alert not found")
	}
	return nil
}

func (r *AlertRepositoryImpl) MarkAllAsRead(ctx context.Context, deviceID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&model.Alert{}).
		Where("device_id = ? AND is_read = ?", deviceID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": now,
		}).Error
}

func (r *AlertRepositoryImpl) GetDueReminders(ctx context.Context, now time.Time) ([]model.Alert, error) {
	var alerts []model.Alert
	err := r.db.WithContext(ctx).
		Where("kind = ? AND due_at IS NOT NULL AND due_at <= ?", "REMINDER", now).
		Scopes(scope.DueSoonest).
		Find(&alerts).Error
	return alerts, err
}

func (r *AlertRepositoryImpl) ClearDue(ctx context.Context, alertID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Alert{}).
		Where("id = ?", alertID).
		Update("due_at", gorm.Expr("NULL")).Error
}

func (r *AlertRepositoryImpl) LastAlertForProduct(ctx context.Context, productID uuid.UUID) (*model.Alert, error) {
	var alert model.Alert
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Scopes(scope.OrderByCreatedDesc).
		First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

func (r *AlertRepositoryImpl) GetAlertTypeByCode(ctx context.Context, code string) (*model.AlertType, error) {
	var alertType model.AlertType
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&alertType).Error
	if err != nil {
		return nil, err
	}
	return &alertType, nil
}

func (r *AlertRepositoryImpl) GetPreference(ctx context.Context, deviceID uuid.UUID) (*model.DevicePreference, error) {
	var pref model.DevicePreference
	err := r.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		First(&pref).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pref, nil
}

func (r *AlertRepositoryImpl) SavePreference(ctx context.Context, pref *model.DevicePreference) error {
	return r.db.WithContext(ctx).Save(pref).Error
}

func (r *AlertRepositoryImpl) DeleteAllForDevice(ctx context.Context, deviceID uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("device_id = ?", deviceID).Delete(&model.Alert{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("device_id = ?", deviceID).Delete(&model.DevicePreference{}).Error
}
