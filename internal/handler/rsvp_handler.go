package handler

import (
	"github.com/gin-gonic/gin"

	"undangan/rsvphub/internal/service"
	"undangan/rsvphub/pkg/response"
)

type RSVPHandler struct {
	rsvpService service.RSVPService
}

func NewRSVPHandler(rsvpService service.RSVPService) *RSVPHandler {
	return &RSVPHandler{rsvpService: rsvpService}
}

type RSVPRequest struct {
	Nama      string  `json:"nama"`
	Komunitas string  `json:"komunitas"`
	WhatsApp  string  `json:"whatsapp"`
	Status    string  `json:"status"`
	Alasan    *string `json:"alasan"`
}

type RSVPResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	InviteURL string `json:"inviteURL"`
	WASent    bool   `json:"waSent"`
	WAError   string `json:"waError,omitempty"`
}

// Submit records an RSVP and sends the WhatsApp confirmation.
func (h *RSVPHandler) Submit(c *gin.Context) {
	var req RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	res, err := h.rsvpService.Submit(c.Request.Context(), service.RSVPInput{
		Nama:      req.Nama,
		Komunitas: req.Komunitas,
		WhatsApp:  req.WhatsApp,
		Status:    req.Status,
		Alasan:    req.Alasan,
		Origin:    requestOrigin(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	response.OK(c, RSVPResponse{
		Success:   res.Persisted,
		Token:     res.Token,
		InviteURL: res.InviteURL,
		WASent:    res.Delivered,
		WAError:   res.DeliveryError,
	})
}
