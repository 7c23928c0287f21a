package handler

import (
	"errors"
	"io"
	"net/http"

	"clubsphere/internal/middleware"
	"clubsphere/internal/model"
	"clubsphere/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type syncReq struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

type profileReq struct {
	Name     *string `json:"name"`
	PhotoURL *string `json:"photoURL"`
}

type roleReq struct {
	Role model.Role `json:"role" binding:"required"`
}

// Sync creates or refreshes the caller's record. The email always comes from the token.
func (h *UserHandler) Sync(c *gin.Context) {
	var req syncReq
	// The body is optional here.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badBody(c, err)
		return
	}
	id, _ := middleware.IdentityFrom(c)
	user, created, err := h.svc.Sync(c.Request.Context(), id, service.SyncInput{Name: req.Name, PhotoURL: req.PhotoURL})
	if err != nil {
		fail(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	c.JSON(http.StatusOK, h.svc.Me(id))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	id, _ := middleware.IdentityFrom(c)
	user, err := h.svc.UpdateProfile(c.Request.Context(), id, service.ProfileInput{Name: req.Name, PhotoURL: req.PhotoURL})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	list(c, items)
}

func (h *UserHandler) SetRole(c *gin.Context) {
	var req roleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	user, err := h.svc.SetRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	message(c, "User removed")
}
