package routes

import (
	"stayhub/middleware"
	"stayhub/models"
	"stayhub/ratelim"
	"stayhub/reservation"
	"stayhub/student"

	"github.com/julienschmidt/httprouter"
)

func AddStudentRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	studentOnly := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles(models.RoleStudent),
	)

	router.GET("/api/student/dashboard", studentOnly(student.Dashboard))
	router.GET("/api/student/hostels", studentOnly(student.ListHostels))
	router.GET("/api/student/hostels/:hostelId/rooms", studentOnly(student.ListRooms))
	router.GET("/api/student/rooms/:roomId/bunks", studentOnly(student.ListBunks))

	router.POST("/api/student/reserve", studentOnly(reservation.Reserve))
	router.GET("/api/student/reservation", studentOnly(student.GetReservation))
}
