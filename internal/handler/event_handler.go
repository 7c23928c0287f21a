package handler

import (
	"net/http"
	"time"

	"clubsphere/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	svc *service.EventService
}

func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

type eventCreateReq struct {
	ClubID       string   `json:"clubId" binding:"required"`
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	EventDate    flexTime `json:"eventDate"`
	Location     string   `json:"location" binding:"required"`
	IsPaid       bool     `json:"isPaid"`
	EventFee     float64  `json:"eventFee" binding:"gte=0"`
	MaxAttendees int      `json:"maxAttendees" binding:"gte=0"`
	BannerImage  string   `json:"bannerImage"`
}

type eventUpdateReq struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	EventDate    *flexTime `json:"eventDate"`
	Location     *string   `json:"location"`
	IsPaid       *bool     `json:"isPaid"`
	EventFee     *float64  `json:"eventFee" binding:"omitempty,gte=0"`
	MaxAttendees *int      `json:"maxAttendees" binding:"omitempty,gte=0"`
	BannerImage  *string   `json:"bannerImage"`
}

func (h *EventHandler) List(c *gin.Context) {
	items, err := h.svc.ListPublic(c.Request.Context(), service.EventQuery{
		Search: c.Query("search"),
		ClubID: c.Query("clubId"),
		Sort:   c.Query("sort"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	list(c, items)
}

func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req eventCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	event, err := h.svc.Create(c.Request.Context(), principal(c), service.CreateEventInput{
		ClubID:       req.ClubID,
		Title:        req.Title,
		Description:  req.Description,
		EventDate:    req.EventDate.Time,
		Location:     req.Location,
		IsPaid:       req.IsPaid,
		EventFee:     req.EventFee,
		MaxAttendees: req.MaxAttendees,
		BannerImage:  req.BannerImage,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) Update(c *gin.Context) {
	var req eventUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	var date *time.Time
	if req.EventDate != nil {
		date = &req.EventDate.Time
	}
	event, err := h.svc.Update(c.Request.Context(), principal(c), c.Param("id"), service.UpdateEventInput{
		Title:        req.Title,
		Description:  req.Description,
		EventDate:    date,
		Location:     req.Location,
		IsPaid:       req.IsPaid,
		EventFee:     req.EventFee,
		MaxAttendees: req.MaxAttendees,
		BannerImage:  req.BannerImage,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	message(c, "Event removed")
}
