package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"SkillSwap/internal/service"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	svc *service.MessageService
}

func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

type SendMessageReq struct {
	ToUserID     uint64  `json:"to_user_id" binding:"required"`
	Content      string  `json:"content"`
	ReplyToID    *uint64 `json:"reply_to_id"`
	AttachmentID string  `json:"attachment_id"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	msg, requested, err := h.svc.Send(c.Request.Context(), userIDFromCtx(c), req.ToUserID,
		req.Content, req.ReplyToID, req.AttachmentID)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrBlockedByYou) || errors.Is(err, service.ErrBlockedByPeer) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"msg": err.Error()})
		return
	}
	if requested {
		c.JSON(http.StatusAccepted, gin.H{"requested": true, "msg": "message request sent"})
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *MessageHandler) History(c *gin.Context) {
	peerID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	rows, next, err := h.svc.History(c.Request.Context(), userIDFromCtx(c), peerID, cursor, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": rows, "next_cursor": next})
}

func (h *MessageHandler) Conversations(c *gin.Context) {
	list, err := h.svc.Conversations(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// MarkRead flips everything the caller received from :id to read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	peerID, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}

	n, err := h.svc.MarkRead(c.Request.Context(), userIDFromCtx(c), peerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}

func (h *MessageHandler) UnreadTotal(c *gin.Context) {
	n, err := h.svc.UnreadTotal(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}

func (h *MessageHandler) PendingRequests(c *gin.Context) {
	list, err := h.svc.PendingRequests(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *MessageHandler) AcceptRequest(c *gin.Context) {
	h.settleRequest(c, h.svc.AcceptRequest)
}

func (h *MessageHandler) DeclineRequest(c *gin.Context) {
	h.settleRequest(c, h.svc.DeclineRequest)
}

func (h *MessageHandler) settleRequest(c *gin.Context, fn func(ctx context.Context, actorID, id uint64) error) {
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

type BlockReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

func (h *MessageHandler) Block(c *gin.Context) {
	var req BlockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	created, err := h.svc.Block(c.Request.Context(), userIDFromCtx(c), req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": created})
}

func (h *MessageHandler) Unblock(c *gin.Context) {
	var req BlockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	removed, err := h.svc.Unblock(c.Request.Context(), userIDFromCtx(c), req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": removed})
}

func (h *MessageHandler) BlockedUsers(c *gin.Context) {
	list, err := h.svc.BlockedUsers(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	for i := range list {
		list[i].Password = ""
		list[i].Email = ""
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
