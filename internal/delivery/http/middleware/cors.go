package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// Методы, которые реально обслуживает API сценариев
const corsMethods = "GET,POST,DELETE,OPTIONS"

// CORS разрешает браузерные запросы с origins из API_CORS_ORIGINS.
// Пустой список означает любой origin; API без авторизации, поэтому credentials не передаются.
func CORS(allowOrigins string) fiber.Handler {
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  corsMethods,
		AllowHeaders:  "Content-Type,Accept",
		ExposeHeaders: "Content-Disposition",
		MaxAge:        3600,
	})
}
