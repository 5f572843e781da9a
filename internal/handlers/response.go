package handlers

import (
	"errors"
	"fmt"
	"log"

	"agrimarket/internal/repositories"
	"agrimarket/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// validationErrorResponse turns validator failures into a 422 with
// per-field messages.
func validationErrorResponse(c *fiber.Ctx, err error) error {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// businessErrorResponse maps service and repository errors onto the HTTP
// taxonomy: 404 for unknown ids, 403 for policy denials, 400 for
// business-rule violations, 500 for everything else.
func businessErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, repositories.ErrOrderNotFound),
		errors.Is(err, repositories.ErrProductNotFound),
		errors.Is(err, repositories.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized):
		// Uniform denial, no detail beyond "unauthorized".
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "unauthorized",
		})
	case errors.Is(err, repositories.ErrOrderNotPending):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only pending orders can be cancelled",
		})
	case errors.Is(err, repositories.ErrMixedFarmerOrder),
		errors.Is(err, repositories.ErrStatusConflict):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var stockErr *repositories.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": stockErr.Error(),
		})
	}
	var transitionErr *services.IllegalTransitionError
	if errors.As(err, &transitionErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": transitionErr.Error(),
		})
	}

	log.Printf("Unhandled error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}
