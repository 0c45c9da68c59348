package handler

import (
	"net/http"
	"strconv"

	"SkillSwap/internal/repository/mysql"
	"SkillSwap/internal/service"

	"github.com/gin-gonic/gin"
)

type SkillHandler struct {
	svc *service.SkillService
}

func NewSkillHandler(svc *service.SkillService) *SkillHandler {
	return &SkillHandler{svc: svc}
}

type SkillReq struct {
	Title        string `json:"title" binding:"required,max=200"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Level        string `json:"level"`
	Availability string `json:"availability"`
}

type SkillUpdateReq struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	Level        *string `json:"level"`
	Availability *string `json:"availability"`
}

func (h *SkillHandler) Create(c *gin.Context) {
	var req SkillReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	skill, err := h.svc.Create(c.Request.Context(), userIDFromCtx(c), service.SkillInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Level:        req.Level,
		Availability: req.Availability,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, skill)
}

// List supports q/category/level filters and recent|name|popular|rating
// sorts.
func (h *SkillHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))
	f := mysql.SkillFilter{
		Query:    c.Query("q"),
		Category: c.Query("category"),
		Level:    c.Query("level"),
		Sort:     c.Query("sort"),
	}

	list, total, err := h.svc.List(f, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "total": total})
}

func (h *SkillHandler) Mine(c *gin.Context) {
	list, err := h.svc.ListByOwner(userIDFromCtx(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *SkillHandler) Detail(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}

	detail, err := h.svc.Detail(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "skill not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *SkillHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}
	var req SkillUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	err := h.svc.Update(userIDFromCtx(c), id, service.SkillUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Level:        req.Level,
		Availability: req.Availability,
	})
	if err != nil {
		status := http.StatusBadRequest
		if err == service.ErrNotOwner {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *SkillHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
		return
	}

	if err := h.svc.Delete(userIDFromCtx(c), id); err != nil {
		status := http.StatusBadRequest
		if err == service.ErrNotOwner {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *SkillHandler) PopularCategories(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.svc.PopularCategories(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}
