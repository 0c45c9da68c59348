package handler

import (
	"errors"
	"net/http"
	"time"

	"SkillSwap/internal/service"

	"github.com/gin-gonic/gin"
)

type MeetingHandler struct {
	svc *service.MeetingService
}

func NewMeetingHandler(svc *service.MeetingService) *MeetingHandler {
	return &MeetingHandler{svc: svc}
}

type MeetingReq struct {
	Title           string    `json:"title" binding:"required,max=200"`
	Description     string    `json:"description"`
	MeetingType     string    `json:"meeting_type"`
	ScheduledDate   time.Time `json:"scheduled_date" binding:"required"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location"`
	RelatedSkillID  *uint64   `json:"related_skill_id"`
	ParticipantIDs  []uint64  `json:"participant_ids"`
}

type MeetingUpdateReq struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ScheduledDate   time.Time `json:"scheduled_date"`
	DurationMinutes int       `json:"duration_minutes"`
	Location        string    `json:"location"`
}

func meetingStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, service.ErrMeetingInPast),
		errors.Is(err, service.ErrMeetingTooFar),
		errors.Is(err, service.ErrBadDuration),
		errors.Is(err, service.ErrBadStatus):
		return http.StatusBadRequest
	default:
		return http.StatusBadRequest
	}
}

func (h *MeetingHandler) Create(c *gin.Context) {
	var req MeetingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	meeting, err := h.svc.Create(c.Request.Context(), userIDFromCtx(c), service.MeetingInput{
		Title:           req.Title,
		Description:     req.Description,
		MeetingType:     req.MeetingType,
		ScheduledDate:   req.ScheduledDate,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
		RelatedSkillID:  req.RelatedSkillID,
		ParticipantIDs:  req.ParticipantIDs,
	})
	if err != nil {
		c.JSON(meetingStatus(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meeting)
}

func (h *MeetingHandler) Detail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}

	detail, err := h.svc.Detail(c.Request.Context(), userIDFromCtx(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotAllowed) {
			c.JSON(http.StatusForbidden, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"msg": "meeting not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *MeetingHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}
	var req MeetingUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	err := h.svc.Update(c.Request.Context(), userIDFromCtx(c), id, service.MeetingInput{
		Title:           req.Title,
		Description:     req.Description,
		ScheduledDate:   req.ScheduledDate,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
	})
	if err != nil {
		c.JSON(meetingStatus(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *MeetingHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.UpdateStatus(c.Request.Context(), userIDFromCtx(c), id, req.Status); err != nil {
		c.JSON(meetingStatus(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *MeetingHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userIDFromCtx(c), id); err != nil {
		c.JSON(meetingStatus(err), gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *MeetingHandler) Upcoming(c *gin.Context) {
	list, err := h.svc.Upcoming(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *MeetingHandler) Past(c *gin.Context) {
	list, err := h.svc.Past(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *MeetingHandler) All(c *gin.Context) {
	list, err := h.svc.All(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *MeetingHandler) Calendar(c *gin.Context) {
	events, err := h.svc.Calendar(c.Request.Context(), userIDFromCtx(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
