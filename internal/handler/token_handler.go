package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"undangan/rsvphub/internal/service"
	"undangan/rsvphub/pkg/response"
)

// TokenHandler serves the guest-facing invitation and the venue check-in scan.
type TokenHandler struct {
	checkInService service.CheckInService
	invitations    *service.Invitations
}

func NewTokenHandler(checkInService service.CheckInService, invitations *service.Invitations) *TokenHandler {
	return &TokenHandler{checkInService: checkInService, invitations: invitations}
}

func (h *TokenHandler) Get(c *gin.Context) {
	record, err := h.checkInService.Lookup(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Data(c, record)
}

func (h *TokenHandler) CheckIn(c *gin.Context) {
	res, err := h.checkInService.CheckIn(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}

	if res.AlreadyCheckedIn {
		response.OK(c, gin.H{"alreadyCheckin": true, "data": res.Record})
		return
	}
	response.OK(c, gin.H{"success": true, "checkin_at": res.CheckinAt})
}

// QR renders the invitation link for a token as a PNG.
func (h *TokenHandler) QR(c *gin.Context) {
	record, err := h.checkInService.Lookup(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}

	png, err := h.invitations.QR(h.invitations.URL(requestOrigin(c), record.Token()))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}
