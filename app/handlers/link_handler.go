package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/smarturl/smarturl/app/dto"
	businessflow "github.com/smarturl/smarturl/business_flow"
	"github.com/smarturl/smarturl/utils"
)

// LinkHandlerInterface defines the contract for short link handlers
type LinkHandlerInterface interface {
	Shorten(c fiber.Ctx) error
	Redirect(c fiber.Ctx) error
	Analytics(c fiber.Ctx) error
	ListByOwner(c fiber.Ctx) error
}

// LinkHandler handles short link HTTP requests
type LinkHandler struct {
	shortenFlow   businessflow.ShortenFlow
	redirectFlow  businessflow.RedirectFlow
	analyticsFlow businessflow.AnalyticsFlow
	validator     *validator.Validate
}

func NewLinkHandler(
	shortenFlow businessflow.ShortenFlow,
	redirectFlow businessflow.RedirectFlow,
	analyticsFlow businessflow.AnalyticsFlow,
) LinkHandlerInterface {
	return &LinkHandler{
		shortenFlow:   shortenFlow,
		redirectFlow:  redirectFlow,
		analyticsFlow: analyticsFlow,
		validator:     validator.New(),
	}
}

func (h *LinkHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *LinkHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Shorten handles short link creation
// @Summary Shorten URL
// @Tags Links
// @Accept json
// @Produce json
// @Param request body dto.ShortenRequest true "URL to shorten"
// @Success 200 {object} dto.APIResponse{data=dto.ShortenResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/shorten [post]
func (h *LinkHandler) Shorten(c fiber.Ctx) error {
	var req dto.ShortenRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.shortenFlow.Shorten(h.createRequestContext(c, "/api/v1/shorten"), &req)
	if err != nil {
		if businessflow.IsEmptyURL(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "URL cannot be empty", "EMPTY_URL", nil)
		}
		log.Println("Shorten failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to shorten URL", "SHORTEN_FAILED", nil)
	}

	if !result.Safe {
		// Screener verdict: the submission is refused but the request itself succeeded
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.APIResponse{
			Success: false,
			Message: result.SafetyMessage,
			Data:    result,
		})
	}
	return h.SuccessResponse(c, fiber.StatusCreated, "Short link created", result)
}

// Redirect resolves a short code and redirects to the destination
// @Summary Visit Short Link
// @Tags Links
// @Produce json
// @Param code path string true "Short code"
// @Success 302 {string} string "Redirect"
// @Failure 404 {object} any
// @Failure 410 {object} any
// @Failure 500 {object} any
// @Router /r/{code} [get]
func (h *LinkHandler) Redirect(c fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).SendString("invalid short link")
	}

	meta := businessflow.NewClickMetadata(c.Get("User-Agent"), c.Get("Referer"), c.IP())
	meta.SetRequestID(c.Get(businessflow.RequestIDKey))

	destination, err := h.redirectFlow.Resolve(h.createRequestContext(c, "/r/"+code), code, meta)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return c.Status(fiber.StatusNotFound).SendString("not found")
		}
		if businessflow.IsLinkExpired(err) {
			return c.Status(fiber.StatusGone).SendString("link expired")
		}
		log.Println("Redirect failed", err)
		return c.Status(fiber.StatusInternalServerError).SendString("internal error")
	}
	c.Redirect().Status(fiber.StatusFound).To(destination)
	return nil
}

// Analytics returns the click summary for a short code
// @Summary Link Analytics
// @Tags Links
// @Produce json
// @Param code path string true "Short code"
// @Success 200 {object} dto.APIResponse{data=dto.AnalyticsResponse}
// @Failure 404 {object} dto.APIResponse "Unknown short code"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/analytics/{code} [get]
func (h *LinkHandler) Analytics(c fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Short code is required", "INVALID_REQUEST", nil)
	}

	result, err := h.analyticsFlow.Summarize(h.createRequestContext(c, "/api/v1/analytics/"+code), code)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Short link not found", "LINK_NOT_FOUND", nil)
		}
		log.Println("Analytics failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to build analytics", "ANALYTICS_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Analytics summary", result)
}

// ListByOwner returns the links created by an owner
// @Summary List Links
// @Tags Links
// @Produce json
// @Param owner_id query string true "Owner identifier"
// @Success 200 {object} dto.APIResponse{data=[]dto.LinkDTO}
// @Failure 400 {object} dto.APIResponse "Missing owner"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/links [get]
func (h *LinkHandler) ListByOwner(c fiber.Ctx) error {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "owner_id is required", "INVALID_REQUEST", nil)
	}

	links, err := h.shortenFlow.ListByOwner(h.createRequestContext(c, "/api/v1/links"), ownerID)
	if err != nil {
		log.Println("List links failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list links", "LIST_LINKS_FAILED", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Links", links)
}

func (h *LinkHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 10*time.Second)
}

func (h *LinkHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get(businessflow.RequestIDKey))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
