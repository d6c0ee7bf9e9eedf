package routes

import (
	"github.com/gofiber/fiber/v2"

	runsheetController "github.com/promodeagro/promodeagro-ecom-rider-api/controllers/runsheets"
	"github.com/promodeagro/promodeagro-ecom-rider-api/middlewares"
)

func RunsheetRoutes(app *fiber.App, controller *runsheetController.RunsheetController, jwtSecret string) {
	rider := app.Group("/api/rider/:id", middlewares.AuthMiddleware(jwtSecret))

	rider.Get("/runsheets", controller.ListRunsheets)
	rider.Get("/runsheets/:runsheetId", controller.GetRunsheet)
	rider.Post("/runsheets/:runsheetId/accept", controller.AcceptRunsheet)
	rider.Post("/runsheets/:runsheetId/orders/:orderId/confirm", controller.ConfirmOrder)
	rider.Post("/runsheets/:runsheetId/orders/:orderId/cancel", controller.CancelOrder)
}
