package eventsearch

import (
	"errors"
	"fiji/bizerror"
	"fiji/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterEventSearchHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/event-search", middleWares...)
	g.GET("", session.RequirePermission("events", "view"), handleSearchEvents)
}

func handleSearchEvents(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		panic(&bizerror.ErrBadParam{Cause: errors.New("query parameter q is required")})
	}

	docs, err := SearchEventsFunc(c.Request.Context(), keyword)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, docs)
}
