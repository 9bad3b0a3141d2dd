package twofactor

import (
	"time"

	"github.com/fundwit/go-commons/types"
)

const PurposeLogin = "login"
const PurposeSensitiveAction = "sensitive_action"

// TwoFactorCode is a one-time verification code. Used and expired are both
// terminal states.
type TwoFactorCode struct {
	ID                types.ID   `json:"id" gorm:"primary_key"`
	UserID            string     `json:"userId" gorm:"size:128;index"`
	Code              string     `json:"-" gorm:"size:8"`
	Purpose           string     `json:"purpose" gorm:"size:32"`
	IPAddress         string     `json:"ipAddress" gorm:"size:64"`
	UserAgent         string     `json:"userAgent" gorm:"size:512"`
	DeviceFingerprint string     `json:"deviceFingerprint" gorm:"size:32"`
	IsUsed            bool       `json:"isUsed"`
	IsExpired         bool       `json:"isExpired"`
	Attempts          int        `json:"attempts"`
	CreateTime        time.Time  `json:"createTime"`
	ExpireTime        time.Time  `json:"expireTime"`
	UsedAt            *time.Time `json:"usedAt"`
}

// TrustedDevice remembers a device for which a 2FA challenge was completed.
// At most one active record exists per (user, fingerprint).
type TrustedDevice struct {
	ID          types.ID  `json:"id" gorm:"primary_key"`
	UserID      string    `json:"userId" gorm:"size:128;index"`
	Fingerprint string    `json:"fingerprint" gorm:"size:32"`
	DeviceToken string    `json:"-" gorm:"size:64"`
	DeviceName  string    `json:"deviceName" gorm:"size:64"`
	IPAddress   string    `json:"ipAddress" gorm:"size:64"`
	UserAgent   string    `json:"userAgent" gorm:"size:512"`
	Active      bool      `json:"active"`
	CreateTime  time.Time `json:"createTime"`
	LastUsedAt  time.Time `json:"lastUsedAt"`
	ExpireTime  time.Time `json:"expireTime"`
}

// VerificationResult is deliberately uniform on failure: it never tells wrong
// code apart from expired or absent ones.
type VerificationResult struct {
	Success         bool       `json:"success"`
	DeviceToken     string     `json:"deviceToken,omitempty"`
	DeviceExpiresAt *time.Time `json:"deviceExpiresAt,omitempty"`
}
