package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/promodeagro/promodeagro-ecom-rider-api/pkg/logger"
	"github.com/promodeagro/promodeagro-ecom-rider-api/responses"
	"github.com/promodeagro/promodeagro-ecom-rider-api/services"
)

type RunsheetController struct {
	runsheets *services.RunsheetService
	orders    *services.OrderService
	log       *logger.Logger
}

func NewRunsheetController(runsheets *services.RunsheetService, orders *services.OrderService) *RunsheetController {
	return &RunsheetController{
		runsheets: runsheets,
		orders:    orders,
		log:       logger.NewLogger("rider-api"),
	}
}

// ListRunsheets returns the rider's pending/active runsheet summaries.
func (rc *RunsheetController) ListRunsheets(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	summaries, err := rc.runsheets.ListSummaries(ctx, c.Params("id"))
	if err != nil {
		return rc.respondError(c, err, "Failed to fetch runsheets")
	}

	return c.Status(fiber.StatusOK).JSON(responses.APIResponse{
		Status:  fiber.StatusOK,
		Message: "Fetched runsheets",
		Result:  &fiber.Map{"runsheets": summaries},
	})
}

// GetRunsheet returns one runsheet with its orders hydrated.
func (rc *RunsheetController) GetRunsheet(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	runsheet, err := rc.runsheets.GetDetail(ctx, requestID(c), c.Params("runsheetId"))
	if err != nil {
		return rc.respondError(c, err, "Failed to fetch runsheet")
	}

	return c.Status(fiber.StatusOK).JSON(responses.APIResponse{
		Status:  fiber.StatusOK,
		Message: "Fetched runsheet",
		Result:  &fiber.Map{"runsheet": runsheet},
	})
}

// AcceptRunsheet activates a runsheet for the rider.
func (rc *RunsheetController) AcceptRunsheet(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	runsheet, err := rc.runsheets.Accept(ctx, c.Params("runsheetId"))
	if err != nil {
		return rc.respondError(c, err, "Failed to accept runsheet")
	}

	return c.Status(fiber.StatusOK).JSON(responses.APIResponse{
		Status:  fiber.StatusOK,
		Message: "Runsheet accepted",
		Result:  &fiber.Map{"runsheet": runsheet},
	})
}

// ConfirmOrder marks an order on the runsheet as delivered.
func (rc *RunsheetController) ConfirmOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var req services.ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.APIResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	order, err := rc.orders.Confirm(ctx, requestID(c), c.Params("runsheetId"), c.Params("orderId"), req)
	if err != nil {
		return rc.respondError(c, err, "Failed to update order status")
	}

	return c.Status(fiber.StatusOK).JSON(responses.APIResponse{
		Status:  fiber.StatusOK,
		Message: "Order delivered",
		Result:  &fiber.Map{"order": order},
	})
}

// CancelOrder marks an order cancelled or undelivered depending on the
// reason.
func (rc *RunsheetController) CancelOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.APIResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	order, err := rc.orders.Cancel(ctx, requestID(c), c.Params("runsheetId"), c.Params("orderId"), req.Reason)
	if err != nil {
		return rc.respondError(c, err, "Failed to update order status")
	}

	return c.Status(fiber.StatusOK).JSON(responses.APIResponse{
		Status:  fiber.StatusOK,
		Message: "Order " + order.Status,
		Result:  &fiber.Map{"order": order},
	})
}

func (rc *RunsheetController) respondError(c *fiber.Ctx, err error, failMessage string) error {
	var rejection *services.Rejection
	switch {
	case errors.As(err, &rejection):
		return c.Status(fiber.StatusBadRequest).JSON(responses.APIResponse{
			Status:  fiber.StatusBadRequest,
			Message: rejection.Reason,
		})
	case errors.Is(err, services.ErrInvalidID):
		return c.Status(fiber.StatusBadRequest).JSON(responses.APIResponse{
			Status:  fiber.StatusBadRequest,
			Message: "invalid id",
		})
	case errors.Is(err, services.ErrRunsheetNotFound):
		return c.Status(fiber.StatusNotFound).JSON(responses.APIResponse{
			Status:  fiber.StatusNotFound,
			Message: "Runsheet not found",
		})
	case errors.Is(err, services.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(responses.APIResponse{
			Status:  fiber.StatusNotFound,
			Message: "Order not found",
		})
	default:
		rc.log.Error(requestID(c), "request_failed", failMessage, err)
		return c.Status(fiber.StatusInternalServerError).JSON(responses.APIResponse{
			Status:  fiber.StatusInternalServerError,
			Message: failMessage,
		})
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
