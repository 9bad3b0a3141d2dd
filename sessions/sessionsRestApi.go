package sessions

import (
	"fiji/bizerror"
	"fiji/identity"
	"fiji/session"
	"fiji/twofactor"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type SessionCreation struct {
	Token             string `json:"token" validate:"required"`
	DeviceFingerprint string `json:"deviceFingerprint" validate:"omitempty,len=16,hexadecimal"`
}

type SessionCreationResult struct {
	Requires2FA  bool       `json:"requires2FA"`
	SessionToken string     `json:"sessionToken,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

var sessionsValidator = validator.New()

func RegisterSessionsHandler(r *gin.Engine) {
	g := r.Group("/v1/sessions")
	g.POST("", handleCreateSession)
	g.DELETE("", handleDeleteSession)
}

func RegisterSessionHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/session", middleWares...)
	g.GET("", handleDetailSession)
}

// handleCreateSession is the login entry: a verified provider identity on a
// trusted device gets a backend session token at once, anyone else is sent
// through the 2FA challenge first.
func handleCreateSession(c *gin.Context) {
	login := SessionCreation{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := sessionsValidator.Struct(login); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	claims, err := identity.VerifyIdentityFunc(c.Request.Context(), login.Token)
	if err != nil {
		panic(session.TranslateIdentityError(err))
	}

	fingerprint := login.DeviceFingerprint
	if fingerprint == "" {
		fingerprint = twofactor.Fingerprint(c.Request.UserAgent(), twofactor.ClientIP(c.Request))
	}

	device, err := twofactor.CheckDeviceTrustFunc(c.Request.Context(), claims.UID, fingerprint)
	if err != nil {
		panic(err)
	}
	if device == nil {
		c.JSON(http.StatusOK, &SessionCreationResult{Requires2FA: true})
		return
	}

	token, expiresAt, err := session.CreateSessionToken(c.Request.Context(), claims.UID)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &SessionCreationResult{Requires2FA: false, SessionToken: token, ExpiresAt: &expiresAt})
}

// handleDeleteSession exists for symmetry: session tokens are self-contained,
// logout is client-side token discard.
func handleDeleteSession(c *gin.Context) {
	c.AbortWithStatus(http.StatusNoContent)
}

func handleDetailSession(c *gin.Context) {
	c.JSON(http.StatusOK, session.MustFindSecurityContext(c))
}
