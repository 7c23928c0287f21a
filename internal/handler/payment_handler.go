package handler

import (
	"net/http"

	"clubsphere/internal/model"
	"clubsphere/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

type intentReq struct {
	Type    model.PaymentType `json:"type" binding:"required,oneof=membership event"`
	ClubID  string            `json:"clubId"`
	EventID string            `json:"eventId"`
}

type confirmReq struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
}

func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req intentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	res, err := h.svc.CreateIntent(c.Request.Context(), principal(c), service.CreateIntentInput{
		Type:    req.Type,
		ClubID:  req.ClubID,
		EventID: req.EventID,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req confirmReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	res, err := h.svc.Confirm(c.Request.Context(), principal(c), req.PaymentIntentID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *PaymentHandler) Mine(c *gin.Context) {
	items, err := h.svc.ListMine(c.Request.Context(), principal(c))
	if err != nil {
		fail(c, err)
		return
	}
	list(c, items)
}

func (h *PaymentHandler) All(c *gin.Context) {
	items, err := h.svc.ListAll(c.Request.Context(), principal(c))
	if err != nil {
		fail(c, err)
		return
	}
	list(c, items)
}
