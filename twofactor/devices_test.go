package twofactor_test

import (
	"context"
	"fiji/testinfra"
	"fiji/twofactor"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestDeviceTrust(t *testing.T) {
	RegisterTestingT(t)

	var testDatabase *testinfra.TestDatabase

	trustViaChallenge := func(userID, fingerprint string) *twofactor.VerificationResult {
		record, err := twofactor.CreateVerificationCodeFunc(context.Background(), userID,
			"203.0.113.9", "Mozilla/5.0 (Windows NT 10.0) Chrome/120.0", fingerprint, "")
		Expect(err).To(BeNil())
		result, err := twofactor.VerifyCodeFunc(context.Background(), userID, record.Code, fingerprint, true)
		Expect(err).To(BeNil())
		Expect(result.Success).To(BeTrue())
		return result
	}

	t.Run("trusting the same device twice keeps a single record and rotates the token", func(t *testing.T) {
		defer afterEachTwoFactorCase(t, testDatabase)
		testDatabase = beforeEachTwoFactorCase(t)
		db := testDatabase.DS.GormDB(context.Background())

		first := trustViaChallenge("user-1", "abcdef0123456789")
		second := trustViaChallenge("user-1", "abcdef0123456789")
		Expect(second.DeviceToken).ToNot(Equal(first.DeviceToken))

		var count int
		Expect(db.Model(&twofactor.TrustedDevice{}).
			Where("user_id = ? AND fingerprint = ?", "user-1", "abcdef0123456789").
			Count(&count).Error).To(BeNil())
		Expect(count).To(Equal(1))

		device := twofactor.TrustedDevice{}
		Expect(db.Where("user_id = ? AND fingerprint = ?", "user-1", "abcdef0123456789").
			First(&device).Error).To(BeNil())
		Expect(device.Active).To(BeTrue())
		Expect(device.DeviceName).To(Equal("Chrome on Windows"))
	})

	t.Run("check refreshes last used and misses unknown devices", func(t *testing.T) {
		defer afterEachTwoFactorCase(t, testDatabase)
		testDatabase = beforeEachTwoFactorCase(t)

		trustViaChallenge("user-1", "abcdef0123456789")

		device, err := twofactor.CheckDeviceTrustFunc(context.Background(), "user-1", "abcdef0123456789")
		Expect(err).To(BeNil())
		Expect(device).ToNot(BeNil())

		missing, err := twofactor.CheckDeviceTrustFunc(context.Background(), "user-1", "0000000000000000")
		Expect(err).To(BeNil())
		Expect(missing).To(BeNil())

		foreign, err := twofactor.CheckDeviceTrustFunc(context.Background(), "somebody-else", "abcdef0123456789")
		Expect(err).To(BeNil())
		Expect(foreign).To(BeNil())

		blank, err := twofactor.CheckDeviceTrustFunc(context.Background(), "user-1", "")
		Expect(err).To(BeNil())
		Expect(blank).To(BeNil())
	})

	t.Run("an expired trust is deactivated on read", func(t *testing.T) {
		defer afterEachTwoFactorCase(t, testDatabase)
		testDatabase = beforeEachTwoFactorCase(t)
		db := testDatabase.DS.GormDB(context.Background())

		trustViaChallenge("user-1", "abcdef0123456789")
		Expect(db.Model(&twofactor.TrustedDevice{}).
			Where("user_id = ?", "user-1").
			Update("expire_time", time.Now().Add(-time.Minute)).Error).To(BeNil())

		device, err := twofactor.CheckDeviceTrustFunc(context.Background(), "user-1", "abcdef0123456789")
		Expect(err).To(BeNil())
		Expect(device).To(BeNil())

		stale := twofactor.TrustedDevice{}
		Expect(db.Where("user_id = ?", "user-1").First(&stale).Error).To(BeNil())
		Expect(stale.Active).To(BeFalse())
	})

	t.Run("revoked trust no longer passes the check", func(t *testing.T) {
		defer afterEachTwoFactorCase(t, testDatabase)
		testDatabase = beforeEachTwoFactorCase(t)
		db := testDatabase.DS.GormDB(context.Background())

		trustViaChallenge("user-1", "abcdef0123456789")
		device := twofactor.TrustedDevice{}
		Expect(db.Where("user_id = ?", "user-1").First(&device).Error).To(BeNil())

		revoked, err := twofactor.RevokeDeviceTrustFunc(context.Background(), "user-1", device.ID)
		Expect(err).To(BeNil())
		Expect(revoked).To(BeTrue())

		after, err := twofactor.CheckDeviceTrustFunc(context.Background(), "user-1", "abcdef0123456789")
		Expect(err).To(BeNil())
		Expect(after).To(BeNil())
	})

	t.Run("revocation is owner scoped", func(t *testing.T) {
		defer afterEachTwoFactorCase(t, testDatabase)
		testDatabase = beforeEachTwoFactorCase(t)
		db := testDatabase.DS.GormDB(context.Background())

		trustViaChallenge("user-1", "abcdef0123456789")
		device := twofactor.TrustedDevice{}
		Expect(db.Where("user_id = ?", "user-1").First(&device).Error).To(BeNil())

		revoked, err := twofactor.RevokeDeviceTrustFunc(context.Background(), "somebody-else", device.ID)
		Expect(err).To(BeNil())
		Expect(revoked).To(BeFalse())

		still, err := twofactor.CheckDeviceTrustFunc(context.Background(), "user-1", "abcdef0123456789")
		Expect(err).To(BeNil())
		Expect(still).ToNot(BeNil())
	})

	t.Run("query lists active devices newest used first and drops expired ones", func(t *testing.T) {
		defer afterEachTwoFactorCase(t, testDatabase)
		testDatabase = beforeEachTwoFactorCase(t)
		db := testDatabase.DS.GormDB(context.Background())

		trustViaChallenge("user-1", "aaaaaaaaaaaaaaaa")
		trustViaChallenge("user-1", "bbbbbbbbbbbbbbbb")
		trustViaChallenge("user-1", "cccccccccccccccc")
		twofactor.ResetCodeRequestLimiter("user-1")

		Expect(db.Model(&twofactor.TrustedDevice{}).
			Where("user_id = ? AND fingerprint = ?", "user-1", "aaaaaaaaaaaaaaaa").
			Update("expire_time", time.Now().Add(-time.Minute)).Error).To(BeNil())
		Expect(db.Model(&twofactor.TrustedDevice{}).
			Where("user_id = ? AND fingerprint = ?", "user-1", "bbbbbbbbbbbbbbbb").
			Update("last_used_at", time.Now().Add(time.Minute)).Error).To(BeNil())

		devices, err := twofactor.QueryTrustedDevicesFunc(context.Background(), "user-1")
		Expect(err).To(BeNil())
		Expect(len(devices)).To(Equal(2))
		Expect(devices[0].Fingerprint).To(Equal("bbbbbbbbbbbbbbbb"))
		Expect(devices[1].Fingerprint).To(Equal("cccccccccccccccc"))

		dropped := twofactor.TrustedDevice{}
		Expect(db.Where("fingerprint = ?", "aaaaaaaaaaaaaaaa").First(&dropped).Error).To(BeNil())
		Expect(dropped.Active).To(BeFalse())
	})
}
