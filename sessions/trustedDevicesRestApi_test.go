package sessions_test

import (
	"context"
	"encoding/json"
	"fiji/bizerror"
	"fiji/sessions"
	"fiji/testinfra"
	"fiji/twofactor"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestTrustedDevicesHandler(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.ReleaseMode)

	buildRouter := func() *gin.Engine {
		router := gin.New()
		router.Use(bizerror.ErrorHandling())
		sessions.RegisterTrustedDevicesHandler(router, testinfra.InjectSecCtx(testinfra.BuildSecCtx("user-1")))
		return router
	}

	t.Run("should list the caller's trusted devices", func(t *testing.T) {
		defer resetTrustedDevicesRestMocks()
		twofactor.QueryTrustedDevicesFunc = func(ctx context.Context, userID string) ([]twofactor.TrustedDevice, error) {
			Expect(userID).To(Equal("user-1"))
			return []twofactor.TrustedDevice{
				{ID: 10, UserID: userID, Fingerprint: "abcdef0123456789", DeviceName: "Chrome on Windows", Active: true},
			}, nil
		}

		req := httptest.NewRequest(http.MethodGet, "/v1/trusted-devices", nil)
		status, body, _ := testinfra.ExecuteRequest(req, buildRouter())
		Expect(status).To(Equal(http.StatusOK))

		var devices []twofactor.TrustedDevice
		Expect(json.Unmarshal([]byte(body), &devices)).To(BeNil())
		Expect(len(devices)).To(Equal(1))
		Expect(devices[0].DeviceName).To(Equal("Chrome on Windows"))
	})

	t.Run("should revoke an owned device", func(t *testing.T) {
		defer resetTrustedDevicesRestMocks()
		revokedID := types.ID(0)
		twofactor.RevokeDeviceTrustFunc = func(ctx context.Context, userID string, deviceID types.ID) (bool, error) {
			Expect(userID).To(Equal("user-1"))
			revokedID = deviceID
			return true, nil
		}

		req := httptest.NewRequest(http.MethodDelete, "/v1/trusted-devices/10", nil)
		status, _, _ := testinfra.ExecuteRequest(req, buildRouter())
		Expect(status).To(Equal(http.StatusNoContent))
		Expect(revokedID).To(Equal(types.ID(10)))
	})

	t.Run("another user's device reads as absent", func(t *testing.T) {
		defer resetTrustedDevicesRestMocks()
		twofactor.RevokeDeviceTrustFunc = func(ctx context.Context, userID string, deviceID types.ID) (bool, error) {
			return false, nil
		}

		req := httptest.NewRequest(http.MethodDelete, "/v1/trusted-devices/10", nil)
		status, body, _ := testinfra.ExecuteRequest(req, buildRouter())
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).To(MatchJSON(`{"code":"common.record_not_found","message":"record not found","data":null}`))
	})

	t.Run("a malformed id maps to 400", func(t *testing.T) {
		defer resetTrustedDevicesRestMocks()

		req := httptest.NewRequest(http.MethodDelete, "/v1/trusted-devices/not-an-id", nil)
		status, _, _ := testinfra.ExecuteRequest(req, buildRouter())
		Expect(status).To(Equal(http.StatusBadRequest))
	})
}

func resetTrustedDevicesRestMocks() {
	twofactor.QueryTrustedDevicesFunc = func(ctx context.Context, userID string) ([]twofactor.TrustedDevice, error) {
		return []twofactor.TrustedDevice{}, nil
	}
	twofactor.RevokeDeviceTrustFunc = func(ctx context.Context, userID string, deviceID types.ID) (bool, error) {
		return false, nil
	}
}
