package handler

import (
	"github.com/gin-gonic/gin"

	"hostel-portal/backend/internal/service"
	"hostel-portal/backend/pkg/response"
)

// DiagnosticsHandler 诊断模块 HTTP 处理器
type DiagnosticsHandler struct {
	diagnosticsSvc service.DiagnosticsService
}

// NewDiagnosticsHandler 创建 DiagnosticsHandler
func NewDiagnosticsHandler(diagnosticsSvc service.DiagnosticsService) *DiagnosticsHandler {
	return &DiagnosticsHandler{diagnosticsSvc: diagnosticsSvc}
}

// GetSummary 系统诊断汇总（房间占用、配额消耗、孤儿缴费单）
// GET /api/v1/diagnostics/summary
func (h *DiagnosticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.diagnosticsSvc.Summary(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, summary)
}
