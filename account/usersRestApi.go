package account

import (
	"fiji/bizerror"
	"fiji/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterUsersHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/users", middleWares...)

	handler := &usersHandler{validator: validator.New()}

	g.GET("", handler.handleQueryUsers)
	g.POST("", handler.handleCreateUser)
	g.GET(":uid", handler.handleDetailUser)
	g.PUT(":uid", handler.handleUpdateUserProfile)
	g.PUT(":uid/roles", handler.handleUpdateUserRoles)
}

type usersHandler struct {
	validator *validator.Validate
}

func (h *usersHandler) handleQueryUsers(c *gin.Context) {
	users, err := QueryUsersFunc(session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, users)
}

func (h *usersHandler) handleCreateUser(c *gin.Context) {
	creation := UserCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	user, err := CreateUserFunc(&creation, session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, user)
}

func (h *usersHandler) handleDetailUser(c *gin.Context) {
	user, err := DetailUserFunc(c.Param("uid"), session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, user)
}

func (h *usersHandler) handleUpdateUserProfile(c *gin.Context) {
	updating := UserUpdation{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(updating); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	if err := UpdateUserProfileFunc(c.Param("uid"), &updating, session.MustFindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func (h *usersHandler) handleUpdateUserRoles(c *gin.Context) {
	updating := UserRolesUpdation{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	if err := UpdateUserRolesFunc(c.Param("uid"), &updating, session.MustFindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
