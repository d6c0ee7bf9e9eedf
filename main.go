package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/promodeagro/promodeagro-ecom-rider-api/configs"
	runsheetController "github.com/promodeagro/promodeagro-ecom-rider-api/controllers/runsheets"
	"github.com/promodeagro/promodeagro-ecom-rider-api/repositories"
	"github.com/promodeagro/promodeagro-ecom-rider-api/routes"
	"github.com/promodeagro/promodeagro-ecom-rider-api/services"
	"github.com/promodeagro/promodeagro-ecom-rider-api/store"
)

func main() {
	client, err := configs.ConnectDB(configs.EnvMongoURI())
	if err != nil {
		log.Fatal(err)
	}

	db := store.New(client, configs.EnvDBName())
	orderRepo := repositories.NewOrderRepository(db)
	runsheetRepo := repositories.NewRunsheetRepository(db)
	productRepo := repositories.NewProductRepository(db)

	var verifier services.PaymentVerifier
	if keyID := configs.EnvRazorpayKeyId(); keyID != "" {
		verifier = services.NewRazorpayVerifier(keyID, configs.EnvRazorpayKeySecret())
	}

	runsheetService := services.NewRunsheetService(runsheetRepo, orderRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, runsheetRepo, productRepo, verifier, configs.EnvStrictConfirm())
	controller := runsheetController.NewRunsheetController(runsheetService, orderService)

	app := fiber.New()
	app.Use(requestid.New())

	routes.RunsheetRoutes(app, controller, configs.EnvJWTSecret())

	log.Fatal(app.Listen(":" + configs.EnvPort()))
}
