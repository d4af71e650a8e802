package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/stall-pos/internal/application/service"
	"github.com/sangkips/stall-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/stall-pos/pkg/logger"
	"go.uber.org/zap"
)

// ReportHandler serves today's totals and the close-register export
type ReportHandler struct {
	register *service.Register
	export   *service.ExportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(register *service.Register, export *service.ExportService) *ReportHandler {
	return &ReportHandler{register: register, export: export}
}

// Today returns totals by payment type, category totals and item counts
func (h *ReportHandler) Today(c *gin.Context) {
	response.OK(c, "Today's report retrieved", h.register.TodayReport())
}

// ExportCloseRegister downloads today's close-register workbook
func (h *ReportHandler) ExportCloseRegister(c *gin.Context) {
	var buf bytes.Buffer
	name, err := h.export.ExportCloseRegister(c.Request.Context(), &buf)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("close register export failed", zap.Error(err))
		response.InternalServerError(c, "Failed to export close register")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, h.export.ContentType(), buf.Bytes())
}
