package invitation

import (
	"fiji/bizerror"
	"fiji/session"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var invitationsValidator = validator.New()

func RegisterInvitationsHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/invitations", middleWares...)

	g.GET("", session.RequirePermission("invitations", "view"), handleQueryInvitations)
	g.POST("", session.RequirePermission("invitations", "create"), handleCreateInvitation)
	g.DELETE(":id", session.RequirePermission("invitations", "delete"), handleRevokeInvitation)
}

// RegisterInvitationAcceptancesHandler registers the public redemption
// endpoint, the invitee has no session yet.
func RegisterInvitationAcceptancesHandler(r *gin.Engine) {
	r.POST("/v1/invitation-acceptances", handleAcceptInvitation)
}

func handleQueryInvitations(c *gin.Context) {
	invitations, err := QueryInvitationsFunc(c.Request.Context(), session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, invitations)
}

func handleCreateInvitation(c *gin.Context) {
	creation := InvitationCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := invitationsValidator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	result, err := CreateInvitationFunc(c.Request.Context(), &creation, session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, result)
}

func handleRevokeInvitation(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	if err := RevokeInvitationFunc(c.Request.Context(), id, session.MustFindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleAcceptInvitation(c *gin.Context) {
	acceptance := InvitationAcceptance{}
	if err := c.ShouldBindBodyWith(&acceptance, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := invitationsValidator.Struct(acceptance); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	user, err := AcceptInvitationFunc(c.Request.Context(), &acceptance)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, user)
}
