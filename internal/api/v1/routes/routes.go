// Package routes wires the v1 API routes
package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/CatDevelop/exchange-tochka/internal/api/v1/handlers"
	"github.com/CatDevelop/exchange-tochka/internal/api/v1/middleware"
	"github.com/CatDevelop/exchange-tochka/internal/services"
)

// Services groups the services the API depends on
type Services struct {
	User       *services.User
	Instrument *services.Instrument
	Balance    *services.Balance
	Order      *services.Order
	MarketData *services.MarketData
}

// Register registers the v1 routes on the app
func Register(app *fiber.App, svc Services) {
	userHandler := handlers.NewUserHandler(svc.User)
	instrumentHandler := handlers.NewInstrumentHandler(svc.Instrument)
	balanceHandler := handlers.NewBalanceHandler(svc.Balance)
	orderHandler := handlers.NewOrderHandler(svc.Order)
	marketDataHandler := handlers.NewMarketDataHandler(svc.MarketData)

	auth := middleware.APIKeyAuth(svc.User)
	admin := middleware.AdminOnly()

	v1 := app.Group("/api/v1")

	v1.Get("/health", handlers.Health)

	// Public routes
	public := v1.Group("/public")
	public.Post("/register", userHandler.Register)
	public.Get("/profile", auth, userHandler.Profile)
	public.Get("/instrument", instrumentHandler.ListInstruments)
	public.Get("/orderbook/:ticker", marketDataHandler.GetOrderbook)
	public.Get("/transactions/:ticker", marketDataHandler.GetTransactions)

	// Authenticated routes
	orders := v1.Group("/order", auth)
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/:id", orderHandler.GetOrder)
	orders.Delete("/:id", orderHandler.CancelOrder)

	v1.Get("/balance", auth, balanceHandler.GetBalances)

	// Admin routes
	adminGroup := v1.Group("/admin", auth, admin)
	adminGroup.Post("/instrument", instrumentHandler.CreateInstrument)
	adminGroup.Delete("/instrument/:ticker", instrumentHandler.DeleteInstrument)
	adminGroup.Get("/user", userHandler.ListUsers)
	adminGroup.Delete("/user/:id", userHandler.DeleteUser)
	adminGroup.Post("/balance/deposit", balanceHandler.Deposit)
	adminGroup.Post("/balance/withdraw", balanceHandler.Withdraw)
}
