package twofactor

import (
	"context"
	"errors"
	"fiji/common"
	"fiji/persistence"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	deviceIdWorker *sonyflake.Sonyflake

	CheckDeviceTrustFunc    = checkDeviceTrust
	RevokeDeviceTrustFunc   = revokeDeviceTrust
	QueryTrustedDevicesFunc = queryTrustedDevices
)

func init() {
	deviceIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
}

// trustDevice creates or reactivates the trusted record of (userID,
// fingerprint), rotating the device token and refreshing the expiry.
func trustDevice(db *gorm.DB, userID, fingerprint, ipAddress, userAgent string) (*TrustedDevice, error) {
	now := time.Now()
	token := uuid.New().String()
	expireTime := now.Add(DeviceTrustDuration)

	device := TrustedDevice{}
	err := db.Where(&TrustedDevice{UserID: userID, Fingerprint: fingerprint}).First(&device).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		device = TrustedDevice{ID: common.NextId(deviceIdWorker), UserID: userID, Fingerprint: fingerprint,
			DeviceToken: token, DeviceName: ParseDeviceName(userAgent), IPAddress: ipAddress, UserAgent: userAgent,
			Active: true, CreateTime: now, LastUsedAt: now, ExpireTime: expireTime}
		if err := db.Create(&device).Error; err != nil {
			return nil, err
		}
		return &device, nil
	}

	updates := map[string]interface{}{
		"device_token": token,
		"device_name":  ParseDeviceName(userAgent),
		"ip_address":   ipAddress,
		"user_agent":   userAgent,
		"active":       true,
		"last_used_at": now,
		"expire_time":  expireTime,
	}
	if err := db.Model(&TrustedDevice{}).Where("id = ?", device.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	device.DeviceToken = token
	device.DeviceName = ParseDeviceName(userAgent)
	device.IPAddress = ipAddress
	device.UserAgent = userAgent
	device.Active = true
	device.LastUsedAt = now
	device.ExpireTime = expireTime
	return &device, nil
}

// checkDeviceTrust is the gate that lets a login skip the 2FA challenge.
// An expired record is deactivated on read and reported as absent.
func checkDeviceTrust(ctx context.Context, userID, fingerprint string) (*TrustedDevice, error) {
	if fingerprint == "" {
		return nil, nil
	}
	db := persistence.ActiveDataSourceManager.GormDB(ctx)

	device := TrustedDevice{}
	err := db.Where("user_id = ? AND fingerprint = ? AND active = ?", userID, fingerprint, true).
		First(&device).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now()
	if !now.Before(device.ExpireTime) {
		if err := db.Model(&TrustedDevice{}).Where("id = ?", device.ID).
			Update("active", false).Error; err != nil {
			return nil, err
		}
		return nil, nil
	}

	if err := db.Model(&TrustedDevice{}).Where("id = ?", device.ID).
		Update("last_used_at", now).Error; err != nil {
		return nil, err
	}
	device.LastUsedAt = now
	return &device, nil
}

// revokeDeviceTrust deactivates the device only when it belongs to userID.
func revokeDeviceTrust(ctx context.Context, userID string, deviceID types.ID) (bool, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)

	device := TrustedDevice{}
	if err := db.Where("id = ?", deviceID).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if device.UserID != userID {
		return false, nil
	}
	if err := db.Model(&TrustedDevice{}).Where("id = ?", device.ID).
		Update("active", false).Error; err != nil {
		return false, err
	}
	return true, nil
}

// queryTrustedDevices lists active unexpired devices newest-used first,
// deactivating any expired record found during the scan.
func queryTrustedDevices(ctx context.Context, userID string) ([]TrustedDevice, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)

	var records []TrustedDevice
	if err := db.Where("user_id = ? AND active = ?", userID, true).
		Order("last_used_at desc").Find(&records).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	result := []TrustedDevice{}
	for _, device := range records {
		if !now.Before(device.ExpireTime) {
			if err := db.Model(&TrustedDevice{}).Where("id = ?", device.ID).
				Update("active", false).Error; err != nil {
				return nil, err
			}
			continue
		}
		result = append(result, device)
	}
	return result, nil
}
