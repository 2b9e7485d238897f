package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/domain"
)

// Códigos de error expuestos en dto.ErrorResponse.
const (
	CodeInvalidBody         = "INVALID_BODY"
	CodeValidation          = "VALIDATION"
	CodeNotFound            = "NOT_FOUND"
	CodeDuplicate           = "DUPLICATE"
	CodeInvalidState        = "INVALID_STATE"
	CodeInsufficientStock   = "INSUFFICIENT_STOCK"
	CodeResourceUnavailable = "RESOURCE_UNAVAILABLE"
	CodeUnknownProduct      = "UNKNOWN_PRODUCT"
	CodeUnknownEntity       = "UNKNOWN_ENTITY"
	CodeOrderNotReady       = "ORDER_NOT_READY"
	CodeConflict            = "CONFLICT"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInternal            = "INTERNAL"
)

func errorJSON(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
}

func invalidBody(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusBadRequest, CodeInvalidBody, "cuerpo inválido")
}

func validationError(c *fiber.Ctx, message string) error {
	return errorJSON(c, fiber.StatusBadRequest, CodeValidation, message)
}

// writeError traduce los errores de dominio a la respuesta HTTP.
// Los tipos con datos adicionales (stock insuficiente, estado inválido) se exponen en Details.
func writeError(c *fiber.Ctx, err error) error {
	var (
		stockErr   *domain.InsufficientStockError
		stateErr   *domain.InvalidStateError
		unknownErr *domain.UnknownEntityError
		notReady   *domain.OrderNotReadyError
		unavail    *domain.ResourceUnavailableError
		notFound   *domain.NotFoundError
	)
	switch {
	case errors.As(err, &stockErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    CodeInsufficientStock,
			Message: stockErr.Error(),
			Details: map[string]any{
				"product_id":   stockErr.ProductID,
				"warehouse_id": stockErr.WarehouseID,
				"requested":    stockErr.Requested,
				"available":    stockErr.Available,
			},
		})
	case errors.As(err, &stateErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    CodeInvalidState,
			Message: stateErr.Error(),
			Details: map[string]any{"state": stateErr.State, "operation": stateErr.Operation},
		})
	case errors.As(err, &unavail):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    CodeResourceUnavailable,
			Message: unavail.Error(),
			Details: map[string]any{"resource": unavail.Resource, "id": unavail.ID},
		})
	case errors.As(err, &unknownErr):
		code := CodeUnknownEntity
		if unknownErr.Entity == domain.EntityProduct {
			code = CodeUnknownProduct
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    code,
			Message: unknownErr.Error(),
			Details: map[string]any{"entity": unknownErr.Entity, "id": unknownErr.ID},
		})
	case errors.As(err, &notReady):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    CodeOrderNotReady,
			Message: notReady.Error(),
			Details: map[string]any{"order_id": notReady.OrderID, "state": notReady.State},
		})
	case errors.As(err, &notFound):
		return errorJSON(c, fiber.StatusNotFound, CodeNotFound, notFound.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return errorJSON(c, fiber.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return errorJSON(c, fiber.StatusConflict, CodeDuplicate, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return errorJSON(c, fiber.StatusConflict, CodeInsufficientStock, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		return errorJSON(c, fiber.StatusConflict, CodeInvalidState, err.Error())
	case errors.Is(err, domain.ErrResourceUnavailable):
		return errorJSON(c, fiber.StatusConflict, CodeResourceUnavailable, err.Error())
	case errors.Is(err, domain.ErrUnknownProduct):
		return errorJSON(c, fiber.StatusUnprocessableEntity, CodeUnknownProduct, err.Error())
	case errors.Is(err, domain.ErrUnknownEntity):
		return errorJSON(c, fiber.StatusUnprocessableEntity, CodeUnknownEntity, err.Error())
	case errors.Is(err, domain.ErrOrderNotReady):
		return errorJSON(c, fiber.StatusUnprocessableEntity, CodeOrderNotReady, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return errorJSON(c, fiber.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return errorJSON(c, fiber.StatusUnauthorized, CodeUnauthorized, "credenciales inválidas")
	case errors.Is(err, domain.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, CodeForbidden, err.Error())
	}
	return errorJSON(c, fiber.StatusInternalServerError, CodeInternal, err.Error())
}
