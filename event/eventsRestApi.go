package event

import (
	"fiji/bizerror"
	"fiji/session"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterEventsHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/events", middleWares...)

	handler := &eventsHandler{validator: validator.New()}

	g.GET("", session.RequirePermission("events", "view"), handler.handleQueryEvents)
	g.POST("", session.RequirePermission("events", "create"), handler.handleCreateEvent)
	g.GET(":id", session.RequirePermission("events", "view"), handler.handleDetailEvent)
	g.PUT(":id", session.RequirePermission("events", "edit"), handler.handleUpdateEvent)
	g.DELETE(":id", session.RequirePermission("events", "delete"), handler.handleDeleteEvent)
}

type eventsHandler struct {
	validator *validator.Validate
}

func (h *eventsHandler) handleQueryEvents(c *gin.Context) {
	query := EventQuery{}
	if err := c.ShouldBindQuery(&query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	events, err := QueryEventsFunc(c.Request.Context(), &query, session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, events)
}

func (h *eventsHandler) handleDetailEvent(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := DetailEventFunc(c.Request.Context(), id, session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func (h *eventsHandler) handleCreateEvent(c *gin.Context) {
	creation := EventCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(creation); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := CreateEventFunc(c.Request.Context(), &creation, session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, record)
}

func (h *eventsHandler) handleUpdateEvent(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	updating := EventUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	if err := h.validator.Struct(updating); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := UpdateEventFunc(c.Request.Context(), id, &updating, session.MustFindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func (h *eventsHandler) handleDeleteEvent(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	if err := DeleteEventFunc(c.Request.Context(), id, session.MustFindSecurityContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
