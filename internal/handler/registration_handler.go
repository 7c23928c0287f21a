package handler

import (
	"net/http"

	"clubsphere/internal/service"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	svc *service.RegistrationService
}

func NewRegistrationHandler(svc *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

type eventRefReq struct {
	EventID string `json:"eventId" binding:"required"`
}

func (h *RegistrationHandler) Register(c *gin.Context) {
	var req eventRefReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	reg, err := h.svc.Register(c.Request.Context(), principal(c), req.EventID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

func (h *RegistrationHandler) Cancel(c *gin.Context) {
	var req eventRefReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), principal(c), req.EventID); err != nil {
		fail(c, err)
		return
	}
	message(c, "Registration cancelled")
}

func (h *RegistrationHandler) Check(c *gin.Context) {
	ok, err := h.svc.Check(c.Request.Context(), principal(c), c.Param("eventId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isRegistered": ok})
}

func (h *RegistrationHandler) Mine(c *gin.Context) {
	items, err := h.svc.ListMine(c.Request.Context(), principal(c))
	if err != nil {
		fail(c, err)
		return
	}
	list(c, items)
}

func (h *RegistrationHandler) ForEvent(c *gin.Context) {
	items, err := h.svc.ListForEvent(c.Request.Context(), principal(c), c.Param("eventId"))
	if err != nil {
		fail(c, err)
		return
	}
	list(c, items)
}
