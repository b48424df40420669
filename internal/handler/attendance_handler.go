package handler

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"undangan/rsvphub/internal/service"
	"undangan/rsvphub/pkg/response"
)

type AttendanceHandler struct {
	attendanceService service.AttendanceService
}

func NewAttendanceHandler(attendanceService service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// List supports ?search=&status=&komunitas=&checkin=yes|no&sort=<column>&dir=asc|desc.
func (h *AttendanceHandler) List(c *gin.Context) {
	f := service.ListFilter{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		Komunitas: c.Query("komunitas"),
		SortBy:    c.Query("sort"),
		SortDir:   c.DefaultQuery("dir", "asc"),
	}
	switch strings.ToLower(c.Query("checkin")) {
	case "yes", "true", "1":
		v := true
		f.CheckedIn = &v
	case "no", "false", "0":
		v := false
		f.CheckedIn = &v
	}

	rows, err := h.attendanceService.List(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Data(c, rows)
}

func (h *AttendanceHandler) Stats(c *gin.Context) {
	st, err := h.attendanceService.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, st)
}

func (h *AttendanceHandler) Counter(c *gin.Context) {
	counter, err := h.attendanceService.Counter(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, counter)
}

// Update accepts {"checkin_at": "<RFC3339>" | true, "wa_sent": true | 1 | 0}.
func (h *AttendanceHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	u, err := parseUpdate(body)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	res, err := h.attendanceService.Update(c.Request.Context(), id, u)
	if err != nil {
		writeError(c, err)
		return
	}
	out := gin.H{"success": true, "data": res.Record}
	if res.AlreadyCheckedIn {
		out["alreadyCheckin"] = true
	}
	response.OK(c, out)
}

type badField string

func (f badField) Error() string { return "invalid " + string(f) }

func parseUpdate(body map[string]json.RawMessage) (service.AttendanceUpdate, error) {
	var u service.AttendanceUpdate

	if raw, ok := body["checkin_at"]; ok {
		raw = bytes.TrimSpace(raw)
		switch {
		case string(raw) == "null":
			u.ClearCheckin = true
		case string(raw) == "true":
			now := time.Now()
			u.CheckinAt = &now
		default:
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return u, badField("checkin_at")
			}
			at, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return u, badField("checkin_at")
			}
			u.CheckinAt = &at
		}
	}

	if raw, ok := body["wa_sent"]; ok {
		var v bool
		switch strings.TrimSpace(string(raw)) {
		case "true", "1":
			v = true
		case "false", "0":
			v = false
		default:
			return u, badField("wa_sent")
		}
		u.WASent = &v
	}
	return u, nil
}

func (h *AttendanceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.attendanceService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c)
}

type ResendRequest struct {
	ID          uint   `json:"id"`
	WhatsApp    string `json:"whatsapp"`
	Nama        string `json:"nama"`
	Komunitas   string `json:"komunitas"`
	Status      string `json:"status"`
	InviteToken string `json:"invite_token"`
}

// Resend sends the confirmation message again from the admin dashboard.
func (h *AttendanceHandler) Resend(c *gin.Context) {
	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	err := h.attendanceService.Resend(c.Request.Context(), service.ResendInput{
		ID:          req.ID,
		WhatsApp:    req.WhatsApp,
		Nama:        req.Nama,
		Komunitas:   req.Komunitas,
		Status:      req.Status,
		InviteToken: req.InviteToken,
		Origin:      requestOrigin(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c)
}
