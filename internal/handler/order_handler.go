package handler

import (
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req service.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	order, err := h.service.CreateOrder(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "order")
	if err != nil {
		return err
	}

	order, err := h.service.GetOrderByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if order == nil {
		return service.ErrOrderNotFound(id)
	}
	return c.JSON(order)
}

func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "order")
	if err != nil {
		return err
	}

	var req service.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	order, err := h.service.UpdateOrder(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	id, err := parseID(c, "order")
	if err != nil {
		return err
	}

	if err := h.service.DeleteOrder(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
