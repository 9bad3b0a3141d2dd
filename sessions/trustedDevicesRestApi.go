package sessions

import (
	"fiji/bizerror"
	"fiji/session"
	"fiji/twofactor"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

func RegisterTrustedDevicesHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/trusted-devices", middleWares...)
	g.GET("", handleQueryTrustedDevices)
	g.DELETE(":id", handleRevokeTrustedDevice)
}

func handleQueryTrustedDevices(c *gin.Context) {
	sec := session.MustFindSecurityContext(c)
	devices, err := twofactor.QueryTrustedDevicesFunc(c.Request.Context(), sec.Identity.UID)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, devices)
}

func handleRevokeTrustedDevice(c *gin.Context) {
	sec := session.MustFindSecurityContext(c)
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	revoked, err := twofactor.RevokeDeviceTrustFunc(c.Request.Context(), sec.Identity.UID, id)
	if err != nil {
		panic(err)
	}
	if !revoked {
		// a device of another user is reported as absent, not as forbidden
		panic(bizerror.ErrRecordNotFound)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
