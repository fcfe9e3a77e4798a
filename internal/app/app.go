// Package app assembles the HTTP application
package app

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/CatDevelop/exchange-tochka/internal/api/v1/middleware"
	"github.com/CatDevelop/exchange-tochka/internal/api/v1/routes"
	"github.com/CatDevelop/exchange-tochka/internal/db/repos"
	"github.com/CatDevelop/exchange-tochka/internal/services"
)

// New builds the fiber application with all services wired on the given
// database connection
func New(db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(middleware.RequestLogger())

	userRepo := repos.NewUserRepository(db)
	instrumentRepo := repos.NewInstrumentRepository(db)
	balanceRepo := repos.NewBalanceRepository(db)
	orderRepo := repos.NewOrderRepository(db)
	txRepo := repos.NewTransactionRepository(db)

	routes.Register(app, routes.Services{
		User:       services.NewUserService(userRepo),
		Instrument: services.NewInstrumentService(instrumentRepo),
		Balance:    services.NewBalanceService(db, balanceRepo, userRepo),
		Order:      services.NewOrderService(db, orderRepo, instrumentRepo),
		MarketData: services.NewMarketDataService(orderRepo, txRepo),
	})

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
