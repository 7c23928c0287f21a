package handler

import (
	"net/http"

	"clubsphere/internal/model"
	"clubsphere/internal/service"

	"github.com/gin-gonic/gin"
)

type ClubHandler struct {
	svc *service.ClubService
}

func NewClubHandler(svc *service.ClubService) *ClubHandler {
	return &ClubHandler{svc: svc}
}

type clubCreateReq struct {
	ClubName      string  `json:"clubName" binding:"required"`
	Description   string  `json:"description" binding:"required"`
	Category      string  `json:"category" binding:"required"`
	Location      string  `json:"location" binding:"required"`
	BannerImage   string  `json:"bannerImage"`
	MembershipFee float64 `json:"membershipFee" binding:"gte=0"`
}

type clubUpdateReq struct {
	ClubName      *string  `json:"clubName"`
	Description   *string  `json:"description"`
	Category      *string  `json:"category"`
	Location      *string  `json:"location"`
	BannerImage   *string  `json:"bannerImage"`
	MembershipFee *float64 `json:"membershipFee" binding:"omitempty,gte=0"`
}

type clubStatusReq struct {
	Status model.ClubStatus `json:"status" binding:"required"`
}

// List is public and only shows approved clubs. A status query parameter is ignored.
func (h *ClubHandler) List(c *gin.Context) {
	items, err := h.svc.ListPublic(c.Request.Context(), service.ClubQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	list(c, items)
}

func (h *ClubHandler) Get(c *gin.Context) {
	club, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, club)
}

func (h *ClubHandler) Create(c *gin.Context) {
	var req clubCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	club, err := h.svc.Create(c.Request.Context(), principal(c), service.CreateClubInput{
		ClubName:      req.ClubName,
		Description:   req.Description,
		Category:      req.Category,
		Location:      req.Location,
		BannerImage:   req.BannerImage,
		MembershipFee: req.MembershipFee,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, club)
}

func (h *ClubHandler) Update(c *gin.Context) {
	var req clubUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	club, err := h.svc.Update(c.Request.Context(), principal(c), c.Param("id"), service.UpdateClubInput{
		ClubName:      req.ClubName,
		Description:   req.Description,
		Category:      req.Category,
		Location:      req.Location,
		BannerImage:   req.BannerImage,
		MembershipFee: req.MembershipFee,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, club)
}

func (h *ClubHandler) ListManaged(c *gin.Context) {
	items, err := h.svc.ListManaged(c.Request.Context(), principal(c))
	if err != nil {
		fail(c, err)
		return
	}
	list(c, items)
}

func (h *ClubHandler) SetStatus(c *gin.Context) {
	var req clubStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	club, err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, club)
}

func (h *ClubHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	message(c, "Club removed")
}
