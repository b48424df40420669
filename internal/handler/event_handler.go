package handler

import (
	"github.com/gin-gonic/gin"

	"undangan/rsvphub/internal/config"
	"undangan/rsvphub/pkg/response"
)

type EventHandler struct {
	event config.EventConfig
}

func NewEventHandler(event config.EventConfig) *EventHandler {
	return &EventHandler{event: event}
}

func (h *EventHandler) Get(c *gin.Context) {
	response.OK(c, h.event)
}
