package handler

import (
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SupplierHandler struct {
	service service.SupplierService
}

func NewSupplierHandler(s service.SupplierService) *SupplierHandler {
	return &SupplierHandler{service: s}
}

func (h *SupplierHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.SupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	supplier, err := h.service.CreateSupplier(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(supplier)
}

func (h *SupplierHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := parseID(c, "supplier")
	if err != nil {
		return err
	}

	supplier, err := h.service.GetSupplierByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if supplier == nil {
		return service.ErrSupplierNotFound(id)
	}
	return c.JSON(supplier)
}

func (h *SupplierHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.GetAllSuppliers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(suppliers)
}

func (h *SupplierHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, err := parseID(c, "supplier")
	if err != nil {
		return err
	}

	var req service.SupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON()
	}

	supplier, err := h.service.UpdateSupplier(c.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(supplier)
}

// DeleteSupplier also deletes the supplier's products
func (h *SupplierHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, err := parseID(c, "supplier")
	if err != nil {
		return err
	}

	if err := h.service.DeleteSupplier(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
