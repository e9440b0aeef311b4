package handler

import (
	"net/http"

	"security-monitor/internal/usecase/event"
	"security-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service *event.Service
}

func NewEventHandler(service *event.Service) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(router *gin.RouterGroup) {
	events := router.Group("/events")
	{
		events.GET("", h.RecentEvents)
	}
}

// RecentEvents returns the latest events, newest first. The limit query
// parameter is optional and clamped by the service.
func (h *EventHandler) RecentEvents(c *gin.Context) {
	limit := parseLimit(c, event.DefaultRecentLimit)

	events, err := h.service.Recent(c.Request.Context(), limit)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list events")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Events retrieved successfully", events)
}
