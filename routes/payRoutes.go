package routes

import (
	"stayhub/middleware"
	"stayhub/models"
	"stayhub/pay"
	"stayhub/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddPayRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	studentOnly := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles(models.RoleStudent),
	)

	router.POST("/api/payments/initialize", studentOnly(pay.InitializePayment))
	router.GET("/api/payments/status", studentOnly(pay.PaymentStatus))
	router.GET("/api/payments/receipt/:reference", studentOnly(pay.Receipt))
	router.GET("/api/payments/amount", rateLimiter.Limit(pay.GetAmount))

	// Paystack redirects the browser here after checkout.
	router.GET("/api/payments/verify/:reference", rateLimiter.Limit(pay.VerifyPayment))
}
