package donation

import (
	"fiji/bizerror"
	"fiji/session"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterDonationsHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/donations", middleWares...)

	handler := &donationsHandler{validator: validator.New()}

	g.GET("", session.RequirePermission("donations", "view"), handler.handleQueryDonations)
	g.POST("", session.RequirePermission("donations", "create"), handler.handleCreateDonation)
	g.GET(":id", session.RequirePermission("donations", "view"), handler.handleDetailDonation)
	g.DELETE(":id", session.RequirePermission("donations", "delete"), handler.handleDeleteDonation)
}

type donationsHandler struct {
	validator *validator.Validate
}

func (h *donationsHandler) handleQueryDonations(c *gin.Context) {
	query := DonationQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	donations, err := QueryDonationsFunc(c.Request.Context(), &query, session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, donations)
}

func (h *donationsHandler) handleDetailDonation(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := DetailDonationFunc(c.Request.Context(), id, session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func (h *donationsHandler) handleCreateDonation(c *gin.Context) {
	creation := DonationCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := CreateDonationFunc(c.Request.Context(), &creation, session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func (h *donationsHandler) handleDeleteDonation(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	if err := DeleteDonationFunc(c.Request.Context(), id, session.MustFindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
