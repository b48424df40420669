package handler

import (
	"github.com/gin-gonic/gin"

	"undangan/rsvphub/internal/handler/middleware"
	"undangan/rsvphub/internal/service"
	"undangan/rsvphub/pkg/response"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type LoginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "PIN wajib diisi")
		return
	}

	sess, err := h.adminService.Login(c.Request.Context(), req.PIN)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, sess)
}

// Logout revokes the bearer session. PIN-header callers have nothing to revoke.
func (h *AdminHandler) Logout(c *gin.Context) {
	if token := middleware.BearerToken(c); token != "" {
		if err := h.adminService.Logout(c.Request.Context(), token); err != nil {
			writeError(c, err)
			return
		}
	}
	response.Success(c)
}
