package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"

	businessflow "github.com/smarturl/smarturl/business_flow"
	"github.com/smarturl/smarturl/models"
	"github.com/smarturl/smarturl/utils"
)

// AdminLinkHandlerInterface defines the contract for operator reporting endpoints
type AdminLinkHandlerInterface interface {
	DownloadLinksExcel(c fiber.Ctx) error
}

type AdminLinkHandler struct {
	flow businessflow.AdminLinksFlow
}

func NewAdminLinkHandler(flow businessflow.AdminLinksFlow) AdminLinkHandlerInterface {
	return &AdminLinkHandler{flow: flow}
}

// DownloadLinksExcel streams the link inventory as an Excel workbook
// @Summary Download Links Report
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param owner_id query string false "Filter by owner"
// @Success 200 {file} file "Excel report"
// @Failure 500 {object} any
// @Router /api/v1/admin/links/excel [get]
func (h *AdminLinkHandler) DownloadLinksExcel(c fiber.Ctx) error {
	filter := models.LinkFilter{}
	if owner := c.Query("owner_id"); owner != "" {
		filter.OwnerID = &owner
	}

	filename, content, err := h.flow.DownloadLinksExcel(h.createRequestContext(c, "/api/v1/admin/links/excel"), filter)
	if err != nil {
		log.Println("Links report failed", err)
		return c.Status(fiber.StatusInternalServerError).SendString("internal error")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(content)
}

func (h *AdminLinkHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get(businessflow.RequestIDKey))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
