package routes

import (
	"stayhub/live"
	"stayhub/middleware"
	"stayhub/models"
	"stayhub/porter"
	"stayhub/ratelim"
	"stayhub/reservation"

	"github.com/julienschmidt/httprouter"
)

func AddPorterRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	porterOnly := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles(models.RolePorter),
	)

	router.POST("/api/porter/apply", rateLimiter.Limit(porter.Apply))

	router.GET("/api/porter/dashboard", porterOnly(porter.Dashboard))
	router.GET("/api/porter/students", porterOnly(porter.ListStudents))
	router.GET("/api/porter/rooms", porterOnly(porter.ListRooms))

	router.POST("/api/porter/checkin/:studentId", porterOnly(reservation.CheckIn))
	router.POST("/api/porter/release-expired", porterOnly(reservation.ReleaseExpired))

	// Token auth happens inside the handler; websocket upgrades cannot
	// carry an Authorization header from the browser.
	router.GET("/ws/hostel/:hostelId", live.ServeWS(live.Feed))
}
