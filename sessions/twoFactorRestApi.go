package sessions

import (
	"fiji/bizerror"
	"fiji/identity"
	"fiji/notification"
	"fiji/session"
	"fiji/twofactor"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type CodeRequest struct {
	DeviceFingerprint string `json:"deviceFingerprint" validate:"omitempty,len=16,hexadecimal"`
	Purpose           string `json:"purpose" validate:"omitempty,oneof=login sensitive_action"`
}

type CodeRequestResult struct {
	ExpiresAt time.Time `json:"expiresAt"`
}

type CodeVerification struct {
	UserID            string `json:"userId" validate:"required"`
	Code              string `json:"code" validate:"required,len=6,numeric"`
	DeviceFingerprint string `json:"deviceFingerprint" validate:"omitempty,len=16,hexadecimal"`
	RememberDevice    bool   `json:"rememberDevice"`
}

type CodeVerificationResult struct {
	Success         bool       `json:"success"`
	DeviceToken     string     `json:"deviceToken,omitempty"`
	DeviceExpiresAt *time.Time `json:"deviceExpiresAt,omitempty"`
	SessionToken    string     `json:"sessionToken,omitempty"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
}

func RegisterTwoFactorHandler(r *gin.Engine) {
	g := r.Group("/v1/sessions")
	g.POST("/two-factor-codes", handleSendCode)
	g.POST("/two-factor-verifications", handleVerifyCode)
}

// handleSendCode requires an already verified provider token; backend session
// tokens are deliberately not accepted, they are proof of a finished challenge.
func handleSendCode(c *gin.Context) {
	token := session.BearerToken(c)
	if token == "" {
		panic(bizerror.ErrUnauthenticated)
	}
	claims, err := identity.VerifyIdentityFunc(c.Request.Context(), token)
	if err != nil {
		panic(session.TranslateIdentityError(err))
	}

	request := CodeRequest{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindBodyWith(&request, binding.JSON); err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
		if err := sessionsValidator.Struct(request); err != nil {
			panic(&bizerror.ErrBadParam{Cause: err})
		}
	}

	userAgent := c.Request.UserAgent()
	ipAddress := twofactor.ClientIP(c.Request)
	fingerprint := request.DeviceFingerprint
	if fingerprint == "" {
		fingerprint = twofactor.Fingerprint(userAgent, ipAddress)
	}

	code, err := twofactor.CreateVerificationCodeFunc(c.Request.Context(), claims.UID, ipAddress, userAgent,
		fingerprint, request.Purpose)
	if err != nil {
		panic(err)
	}
	if err := notification.SendVerificationCodeFunc(claims.Email, code.Code, code.Purpose); err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, &CodeRequestResult{ExpiresAt: code.ExpireTime})
}

func handleVerifyCode(c *gin.Context) {
	verification := CodeVerification{}
	if err := c.ShouldBindBodyWith(&verification, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := sessionsValidator.Struct(verification); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	result, err := twofactor.VerifyCodeFunc(c.Request.Context(), verification.UserID, verification.Code,
		verification.DeviceFingerprint, verification.RememberDevice)
	if err != nil {
		panic(err)
	}
	if !result.Success {
		c.JSON(http.StatusOK, &CodeVerificationResult{Success: false})
		return
	}

	sessionToken, expiresAt, err := session.CreateSessionToken(c.Request.Context(), verification.UserID)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &CodeVerificationResult{Success: true, DeviceToken: result.DeviceToken,
		DeviceExpiresAt: result.DeviceExpiresAt, SessionToken: sessionToken, ExpiresAt: &expiresAt})
}
