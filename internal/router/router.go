package router

import (
	"go-inventory-api/internal/handler"
	"go-inventory-api/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Product   *handler.ProductHandler
	Supplier  *handler.SupplierHandler
	Order     *handler.OrderHandler
	Sale      *handler.SaleHandler
	User      *handler.UserHandler
	Auth      *handler.AuthHandler
	Dashboard *handler.DashboardHandler
}

// Setup registers every route. auth guards the /api routes other than login; nil leaves them open.
// hub may be nil in tests, which skips the websocket route.
func Setup(app *fiber.App, h Handlers, auth fiber.Handler, hub *ws.Hub) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// ============ PUBLIC ROUTES ============
	api.Post("/auth/login", h.Auth.Login)

	// ============ PROTECTED ROUTES ============
	protected := api
	if auth != nil {
		protected = api.Group("", auth)
	}

	products := protected.Group("/products")
	products.Get("/", h.Product.GetProducts)
	products.Get("/sale-info", h.Product.GetProductsForSale)
	products.Get("/:id", h.Product.GetProduct)
	products.Post("/", h.Product.CreateProduct)
	products.Put("/:id", h.Product.UpdateProduct)
	products.Delete("/:id", h.Product.DeleteProduct)

	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", h.Supplier.GetSuppliers)
	suppliers.Get("/:id", h.Supplier.GetSupplier)
	suppliers.Post("/", h.Supplier.CreateSupplier)
	suppliers.Put("/:id", h.Supplier.UpdateSupplier)
	suppliers.Delete("/:id", h.Supplier.DeleteSupplier)

	orders := protected.Group("/orders")
	orders.Get("/", h.Order.GetOrders)
	orders.Get("/:id", h.Order.GetOrder)
	orders.Post("/", h.Order.CreateOrder)
	orders.Put("/:id", h.Order.UpdateOrder)
	orders.Delete("/:id", h.Order.DeleteOrder)

	sales := protected.Group("/sales")
	sales.Get("/", h.Sale.GetSales)
	sales.Post("/sell", h.Sale.RecordSale)
	sales.Get("/profit", h.Sale.GetTotalProfit)
	sales.Get("/profit/latest", h.Sale.GetLatestProfitRecord)
	sales.Delete("/reset", h.Sale.ResetSales)

	users := protected.Group("/users")
	users.Get("/", h.User.GetUsers)
	users.Get("/:id", h.User.GetUser)
	users.Post("/", h.User.CreateUser)

	protected.Get("/dashboard/stats", h.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/sales", h.Dashboard.GetSalesChart)

	// WebSocket Route
	if hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(hub.Handler()))
	}
}
