package twofactor

import (
	"context"
	"crypto/rand"
	"errors"
	"fiji/bizerror"
	"fiji/common"
	"fiji/persistence"
	"fmt"
	"math/big"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	codeIdWorker *sonyflake.Sonyflake

	CreateVerificationCodeFunc = createVerificationCode
	VerifyCodeFunc             = verifyCode
)

func init() {
	codeIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})
}

// GenerateCode draws a uniformly distributed zero-padded 6-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// createVerificationCode invalidates any active code of (userID, purpose) and
// persists a fresh one. Dispatching the code to the user is the caller's job.
func createVerificationCode(ctx context.Context, userID, ipAddress, userAgent, fingerprint, purpose string) (*TwoFactorCode, error) {
	if userID == "" {
		return nil, &bizerror.ErrBadParam{Cause: errors.New("user id is required")}
	}
	if purpose == "" {
		purpose = PurposeLogin
	}
	if !allowCodeRequest(userID) {
		return nil, bizerror.ErrTooManyRequests
	}

	code, err := GenerateCode()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	record := TwoFactorCode{ID: common.NextId(codeIdWorker), UserID: userID, Code: code, Purpose: purpose,
		IPAddress: ipAddress, UserAgent: userAgent, DeviceFingerprint: fingerprint,
		CreateTime: now, ExpireTime: now.Add(CodeExpiration)}

	db := persistence.ActiveDataSourceManager.GormDB(ctx)
	err = db.Transaction(func(tx *gorm.DB) error {
		// single-active-code invariant for (user, purpose)
		if err := tx.Model(&TwoFactorCode{}).
			Where("user_id = ? AND purpose = ? AND is_used = ? AND is_expired = ?", userID, purpose, false, false).
			Update("is_expired", true).Error; err != nil {
			return err
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// verifyCode consumes a matching active code. Failures are uniform so a caller
// cannot tell whether the user, the code or its freshness was the mismatch.
func verifyCode(ctx context.Context, userID, code, fingerprint string, rememberDevice bool) (*VerificationResult, error) {
	db := persistence.ActiveDataSourceManager.GormDB(ctx)

	record := TwoFactorCode{}
	err := db.Where("user_id = ? AND code = ? AND is_used = ? AND is_expired = ?", userID, code, false, false).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := registerFailedAttempt(db, userID); err != nil {
				return nil, err
			}
			return &VerificationResult{Success: false}, nil
		}
		return nil, err
	}

	now := time.Now()
	if !now.Before(record.ExpireTime) {
		if err := db.Model(&TwoFactorCode{}).Where("id = ?", record.ID).
			Update("is_expired", true).Error; err != nil {
			return nil, err
		}
		return &VerificationResult{Success: false}, nil
	}

	// guarded update: a concurrent verification of the same code loses here
	marked := db.Model(&TwoFactorCode{}).Where("id = ? AND is_used = ?", record.ID, false).
		Updates(map[string]interface{}{"is_used": true, "used_at": &now})
	if marked.Error != nil {
		return nil, marked.Error
	}
	if marked.RowsAffected == 0 {
		return &VerificationResult{Success: false}, nil
	}

	result := VerificationResult{Success: true}
	if rememberDevice && fingerprint != "" {
		device, err := trustDevice(db, userID, fingerprint, record.IPAddress, record.UserAgent)
		if err != nil {
			return nil, err
		}
		result.DeviceToken = device.DeviceToken
		expiresAt := device.ExpireTime
		result.DeviceExpiresAt = &expiresAt
	}
	return &result, nil
}

// registerFailedAttempt counts a miss against the user's active codes and
// invalidates any that reached the attempt limit.
func registerFailedAttempt(db *gorm.DB, userID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&TwoFactorCode{}).
			Where("user_id = ? AND is_used = ? AND is_expired = ?", userID, false, false).
			UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error; err != nil {
			return err
		}
		return tx.Model(&TwoFactorCode{}).
			Where("user_id = ? AND is_used = ? AND is_expired = ? AND attempts >= ?", userID, false, false, MaxVerifyAttempts).
			Update("is_expired", true).Error
	})
}
