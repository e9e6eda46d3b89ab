package routes

import (
	"stayhub/auth"
	"stayhub/middleware"
	"stayhub/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rateLimiter.Limit(auth.Login))
	router.POST("/api/auth/forgot-password", rateLimiter.Limit(auth.ForgotPassword))
	router.POST("/api/auth/reset-password", rateLimiter.Limit(auth.ResetPassword))

	router.GET("/api/auth/profile",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
		)(auth.Me),
	)
	router.POST("/api/auth/change-password",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
		)(auth.ChangePassword),
	)
	router.POST("/api/auth/logout",
		middleware.Chain(
			rateLimiter.Limit,
			middleware.Authenticate,
		)(auth.Logout),
	)
}
