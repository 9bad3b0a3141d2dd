package workgroup

import (
	"fiji/bizerror"
	"fiji/session"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterWorkingGroupsHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/working-groups", middleWares...)

	handler := &workingGroupsHandler{validator: validator.New()}

	g.GET("", session.RequirePermission("working_groups", "view"), handler.handleQueryWorkingGroups)
	g.POST("", session.RequirePermission("working_groups", "create"), handler.handleCreateWorkingGroup)
	g.GET(":id", session.RequirePermission("working_groups", "view"), handler.handleDetailWorkingGroup)
	g.PUT(":id", session.RequirePermission("working_groups", "edit"), handler.handleUpdateWorkingGroup)
	g.DELETE(":id", session.RequirePermission("working_groups", "delete"), handler.handleDeleteWorkingGroup)
}

type workingGroupsHandler struct {
	validator *validator.Validate
}

func (h *workingGroupsHandler) handleQueryWorkingGroups(c *gin.Context) {
	groups, err := QueryWorkingGroupsFunc(c.Request.Context(), session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, groups)
}

func (h *workingGroupsHandler) handleDetailWorkingGroup(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := DetailWorkingGroupFunc(c.Request.Context(), id, session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func (h *workingGroupsHandler) handleCreateWorkingGroup(c *gin.Context) {
	creation := WorkingGroupCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := CreateWorkingGroupFunc(c.Request.Context(), &creation, session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func (h *workingGroupsHandler) handleUpdateWorkingGroup(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	updating := WorkingGroupUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(updating); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := UpdateWorkingGroupFunc(c.Request.Context(), id, &updating, session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func (h *workingGroupsHandler) handleDeleteWorkingGroup(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	if err := DeleteWorkingGroupFunc(c.Request.Context(), id, session.MustFindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
