package handlers

import (
	"time"

	"agrimarket/internal/middleware"
	"agrimarket/internal/models"
	"agrimarket/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleListOrders)
	orderRoutes.Post("/", h.HandlePlaceOrder)
	orderRoutes.Get("/:id", h.HandleGetOrder)
	orderRoutes.Put("/:id/status", h.HandleUpdateStatus)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Post("/:id/complete", h.HandleCompleteOrder)
	orderRoutes.Post("/:id/payment-status", h.HandleUpdatePaymentStatus)
}

// HandleListOrders lists the caller's orders: farmers see orders they
// fulfil, everyone else sees orders they placed. Supports status and
// date filters, paginated with a fixed page size.
func (h *OrderHandler) HandleListOrders(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	in := services.ListOrdersInput{
		Page: c.QueryInt("page", 1),
	}
	if status := c.Query("status"); status != "" {
		s := models.OrderStatus(status)
		if !s.Valid() {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  fiber.Map{"status": "must be a valid order status"},
			})
		}
		in.Status = s
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  fiber.Map{"date_from": "must be a date in YYYY-MM-DD format"},
			})
		}
		in.DateFrom = t
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  fiber.Map{"date_to": "must be a date in YYYY-MM-DD format"},
			})
		}
		in.DateTo = t
	}

	orders, total, err := h.service.ListOrders(principal, in)
	if err != nil {
		return businessErrorResponse(c, err)
	}

	lastPage := (total + 9) / 10
	if lastPage < 1 {
		lastPage = 1
	}
	return c.JSON(fiber.Map{
		"data":         orders,
		"total":        total,
		"per_page":     10,
		"current_page": in.Page,
		"last_page":    lastPage,
	})
}

// HandlePlaceOrder creates a new order for the caller as buyer.
func (h *OrderHandler) HandlePlaceOrder(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var in services.PlaceOrderInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(in); err != nil {
		return validationErrorResponse(c, err)
	}

	order, err := h.service.PlaceOrder(principal, in)
	if err != nil {
		return businessErrorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrder returns a full order with items, buyer and farmer.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	order, err := h.service.GetOrder(principal, c.Params("id"))
	if err != nil {
		return businessErrorResponse(c, err)
	}
	return c.JSON(order)
}

// statusUpdateRequest is the body of PUT /orders/:id/status.
type statusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

// HandleUpdateStatus changes an order's status on behalf of its farmer.
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	order, err := h.service.UpdateStatus(principal, c.Params("id"), models.OrderStatus(req.Status))
	if err != nil {
		return businessErrorResponse(c, err)
	}
	return c.JSON(order)
}

// HandleCancelOrder cancels a pending order and restores its stock.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	order, err := h.service.Cancel(principal, c.Params("id"))
	if err != nil {
		return businessErrorResponse(c, err)
	}
	return c.JSON(order)
}

// HandleCompleteOrder marks a processing order completed.
func (h *OrderHandler) HandleCompleteOrder(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	order, err := h.service.Complete(principal, c.Params("id"))
	if err != nil {
		return businessErrorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Order marked as completed successfully",
		"order":   order,
	})
}

// paymentStatusRequest is the body of POST /orders/:id/payment-status.
type paymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid failed"`
}

// HandleUpdatePaymentStatus sets the payment label on behalf of the
// order's farmer.
func (h *OrderHandler) HandleUpdatePaymentStatus(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	var req paymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	order, err := h.service.UpdatePaymentStatus(principal, c.Params("id"), models.PaymentStatus(req.PaymentStatus))
	if err != nil {
		return businessErrorResponse(c, err)
	}
	return c.JSON(order)
}
