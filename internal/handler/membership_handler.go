package handler

import (
	"net/http"

	"clubsphere/internal/service"

	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	svc *service.MembershipService
}

func NewMembershipHandler(svc *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{svc: svc}
}

type clubRefReq struct {
	ClubID string `json:"clubId" binding:"required"`
}

func (h *MembershipHandler) Join(c *gin.Context) {
	var req clubRefReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	m, err := h.svc.Join(c.Request.Context(), principal(c), req.ClubID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *MembershipHandler) Leave(c *gin.Context) {
	var req clubRefReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	if err := h.svc.Leave(c.Request.Context(), principal(c), req.ClubID); err != nil {
		fail(c, err)
		return
	}
	message(c, "Membership ended")
}

func (h *MembershipHandler) Check(c *gin.Context) {
	ok, err := h.svc.Check(c.Request.Context(), principal(c), c.Param("clubId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isMember": ok})
}

func (h *MembershipHandler) Mine(c *gin.Context) {
	items, err := h.svc.ListMine(c.Request.Context(), principal(c))
	if err != nil {
		fail(c, err)
		return
	}
	list(c, items)
}

func (h *MembershipHandler) ClubMembers(c *gin.Context) {
	items, err := h.svc.ListClubMembers(c.Request.Context(), principal(c), c.Param("clubId"))
	if err != nil {
		fail(c, err)
		return
	}
	list(c, items)
}
