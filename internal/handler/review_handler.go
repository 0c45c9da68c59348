package handler

import (
	"errors"
	"net/http"

	"SkillSwap/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	svc *service.ReviewService
}

func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type ReviewReq struct {
	SkillID uint64 `json:"skill_id" binding:"required"`
	Rating  *int   `json:"rating"`
	Comment string `json:"comment"`
}

type ReviewUpdateReq struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req ReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	review, err := h.svc.Create(c.Request.Context(), userIDFromCtx(c), req.SkillID, req.Rating, req.Comment)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) ListBySkill(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}

	list, err := h.svc.ListBySkill(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}
	var req ReviewUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.Update(userIDFromCtx(c), id, req.Rating, req.Comment); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrNotAllowed) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}

	if err := h.svc.Delete(userIDFromCtx(c), id); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrNotAllowed) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
