package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-inventory-api/internal/idempotency"
	"go-inventory-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	replayedHeader       = "Idempotent-Replayed"
)

type SaleHandler struct {
	service        service.SaleService
	store          idempotency.Store
	idempotencyTTL time.Duration
	logger         *zap.Logger
}

// NewSaleHandler wires the sale endpoints. A nil store disables Idempotency-Key handling.
func NewSaleHandler(s service.SaleService, store idempotency.Store, ttl time.Duration, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{service: s, store: store, idempotencyTTL: ttl, logger: logger.Named("sale_handler")}
}

// RecordSale sells a batch of {id, quantity} items and answers with the batch profit.
// Every failure is a 400 with {"error": message}.
// POST /api/sales/sell
func (h *SaleHandler) RecordSale(c *fiber.Ctx) error {
	var items []service.SaleItem
	if err := c.BodyParser(&items); err != nil {
		return h.saleError(c, err)
	}

	key := c.Get(IdempotencyKeyHeader)
	if key == "" || h.store == nil {
		profit, err := h.service.RecordSale(c.UserContext(), items)
		if err != nil {
			return h.saleError(c, err)
		}
		return c.JSON(profit)
	}

	ctx := c.UserContext()
	fingerprint := bodyFingerprint(c.Body())

	// 1. Replay of a finished request. Store failures are server errors (500), not bad requests.
	result, found, err := h.store.Result(ctx, key)
	if errors.Is(err, idempotency.ErrInProgress) {
		return conflict(c)
	}
	if err != nil {
		return fmt.Errorf("read idempotency key: %w", err)
	}
	if found {
		storedFingerprint, profit, err := decodeResult(result)
		if err != nil {
			return err
		}
		if storedFingerprint != fingerprint {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "Idempotency-Key was already used with a different request",
			})
		}
		c.Set(replayedHeader, "true")
		return c.JSON(profit)
	}

	// 2. Claim the key; losing the race means another request owns it
	claimed, err := h.store.Claim(ctx, key, h.idempotencyTTL)
	if err != nil {
		return fmt.Errorf("claim idempotency key: %w", err)
	}
	if !claimed {
		return conflict(c)
	}

	profit, err := h.service.RecordSale(ctx, items)
	if err != nil {
		if releaseErr := h.store.Release(ctx, key); releaseErr != nil {
			h.logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(releaseErr))
		}
		return h.saleError(c, err)
	}

	if err := h.store.Complete(ctx, key, encodeResult(fingerprint, profit), h.idempotencyTTL); err != nil {
		// The sale is committed; replays see the key as in progress until it expires
		h.logger.Error("failed to store idempotency result", zap.String("key", key), zap.Error(err))
	}
	return c.JSON(profit)
}

// GET /api/sales/profit
func (h *SaleHandler) GetTotalProfit(c *fiber.Ctx) error {
	profit, err := h.service.GetTotalProfit(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"profit": profit})
}

// GET /api/sales/profit/latest
func (h *SaleHandler) GetLatestProfitRecord(c *fiber.Ctx) error {
	record, err := h.service.GetLatestProfitRecord(c.UserContext())
	if err != nil {
		return err
	}
	if record == nil {
		return c.JSON(fiber.Map{"profit": 0.0})
	}
	return c.JSON(record)
}

// DELETE /api/sales/reset
func (h *SaleHandler) ResetSales(c *fiber.Ctx) error {
	resetAt, err := h.service.ResetSales(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":         "Sales data reset successfully",
		"reset_timestamp": resetAt,
	})
}

// GET /api/sales
func (h *SaleHandler) GetSales(c *fiber.Ctx) error {
	sales, err := h.service.ListSales(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(sales)
}

func (h *SaleHandler) saleError(c *fiber.Ctx, err error) error {
	if e, ok := service.AsError(err); ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": e.Message})
	}

	h.logger.Warn("sale request failed", zap.Error(err))
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid sale request: " + err.Error()})
}

// bodyFingerprint identifies the request a key was first used with
func bodyFingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// encodeResult stores "<fingerprint>:<profit>"
func encodeResult(fingerprint string, profit float64) string {
	return fingerprint + ":" + strconv.FormatFloat(profit, 'f', -1, 64)
}

func decodeResult(result string) (string, float64, error) {
	fingerprint, raw, ok := strings.Cut(result, ":")
	if !ok {
		return "", 0, fmt.Errorf("malformed idempotency result %q", result)
	}
	profit, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, fmt.Errorf("malformed idempotency result %q: %w", result, err)
	}
	return fingerprint, profit, nil
}

func conflict(c *fiber.Ctx) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Sale request is already being processed"})
}
