package twofactor

import (
	"errors"
	"os"
	"strconv"
	"time"
)

const DefaultCodeExpiration = 10 * time.Minute
const DefaultDeviceTrustDuration = 7 * 24 * time.Hour
const DefaultMaxVerifyAttempts = 5

var (
	CodeExpiration      = DefaultCodeExpiration
	DeviceTrustDuration = DefaultDeviceTrustDuration
	MaxVerifyAttempts   = DefaultMaxVerifyAttempts
)

// BootstrapConfig reads CODE_EXPIRY_MINUTES, DEVICE_TRUST_DAYS and MAX_2FA_ATTEMPTS.
func BootstrapConfig() error {
	if value := os.Getenv("CODE_EXPIRY_MINUTES"); value != "" {
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes <= 0 {
			return errors.New("invalid CODE_EXPIRY_MINUTES: " + value)
		}
		CodeExpiration = time.Duration(minutes) * time.Minute
	}
	if value := os.Getenv("DEVICE_TRUST_DAYS"); value != "" {
		days, err := strconv.Atoi(value)
		if err != nil || days <= 0 {
			return errors.New("invalid DEVICE_TRUST_DAYS: " + value)
		}
		DeviceTrustDuration = time.Duration(days) * 24 * time.Hour
	}
	if value := os.Getenv("MAX_2FA_ATTEMPTS"); value != "" {
		attempts, err := strconv.Atoi(value)
		if err != nil || attempts <= 0 {
			return errors.New("invalid MAX_2FA_ATTEMPTS: " + value)
		}
		MaxVerifyAttempts = attempts
	}
	return nil
}
