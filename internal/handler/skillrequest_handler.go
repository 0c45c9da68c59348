package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"SkillSwap/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SkillRequestHandler struct {
	svc *service.SkillRequestService
}

func NewSkillRequestHandler(svc *service.SkillRequestService) *SkillRequestHandler {
	return &SkillRequestHandler{svc: svc}
}

type CreateRequestReq struct {
	SkillID      uint64     `json:"skill_id" binding:"required"`
	ScheduledFor *time.Time `json:"scheduled_for"`
}

func (h *SkillRequestHandler) Create(c *gin.Context) {
	var req CreateRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	request, created, err := h.svc.Create(c.Request.Context(), userIDFromCtx(c), req.SkillID, req.ScheduledFor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request, "created": created})
}

func (h *SkillRequestHandler) ListMine(c *gin.Context) {
	list, err := h.svc.ListMine(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *SkillRequestHandler) ListIncoming(c *gin.Context) {
	list, err := h.svc.ListIncoming(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *SkillRequestHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}

	request, err := h.svc.Get(c.Request.Context(), userIDFromCtx(c), id)
	if err != nil {
		c.JSON(transitionStatus(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, request)
}

func (h *SkillRequestHandler) Approve(c *gin.Context) {
	h.transition(c, h.svc.Approve)
}

func (h *SkillRequestHandler) Reject(c *gin.Context) {
	h.transition(c, h.svc.Reject)
}

func (h *SkillRequestHandler) Start(c *gin.Context) {
	h.transition(c, h.svc.Start)
}

func (h *SkillRequestHandler) Complete(c *gin.Context) {
	h.transition(c, h.svc.Complete)
}

func (h *SkillRequestHandler) transition(c *gin.Context, fn func(ctx context.Context, actorID, id uint64) error) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}

	if err := fn(c.Request.Context(), userIDFromCtx(c), id); err != nil {
		c.JSON(transitionStatus(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func transitionStatus(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, service.ErrBadTransition):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
