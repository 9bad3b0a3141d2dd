package role

import (
	"fiji/bizerror"
	"fiji/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterRolesHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/roles", middleWares...)

	handler := &rolesHandler{validator: validator.New()}

	g.GET("", session.RequirePermission("roles", "view"), handler.handleQueryRoles)
	g.POST("", session.RequirePermission("roles", "create"), handler.handleCreateRole)
	g.GET(":roleName", session.RequirePermission("roles", "view"), handler.handleDetailRole)
	g.PUT(":roleName", session.RequirePermission("roles", "edit"), handler.handleUpdateRole)
	g.DELETE(":roleName", session.RequirePermission("roles", "delete"), handler.handleDeleteRole)
}

type rolesHandler struct {
	validator *validator.Validate
}

func (h *rolesHandler) handleQueryRoles(c *gin.Context) {
	roles, err := QueryRolesFunc(session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, roles)
}

func (h *rolesHandler) handleDetailRole(c *gin.Context) {
	record, err := DetailRoleFunc(c.Param("roleName"), session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func (h *rolesHandler) handleCreateRole(c *gin.Context) {
	creation := RoleCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := CreateRoleFunc(&creation, session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func (h *rolesHandler) handleUpdateRole(c *gin.Context) {
	updating := RoleUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(updating); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := UpdateRoleFunc(c.Param("roleName"), &updating, session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func (h *rolesHandler) handleDeleteRole(c *gin.Context) {
	if err := DeleteRoleFunc(c.Param("roleName"), session.MustFindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
