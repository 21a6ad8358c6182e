package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewApp wires the insert/search contract and /metrics. GET / stays unrouted
// so it answers 404, which clients read as "listening".
func NewApp(h *Handler, gatherer prometheus.Gatherer, accessLog bool) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	if accessLog {
		app.Use(logger.New())
	}

	app.Post("/insert", h.Insert)
	app.Post("/search", h.Search)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	return app
}
