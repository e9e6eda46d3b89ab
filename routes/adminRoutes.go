package routes

import (
	"stayhub/admin"
	"stayhub/middleware"
	"stayhub/models"
	"stayhub/pay"
	"stayhub/ratelim"

	"github.com/julienschmidt/httprouter"
)

func AddAdminRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	adminOnly := middleware.Chain(
		rateLimiter.Limit,
		middleware.Authenticate,
		middleware.RequireRoles(models.RoleAdmin),
	)

	// Colleges and departments
	router.POST("/api/admin/colleges", adminOnly(admin.CreateCollege))
	router.GET("/api/admin/colleges", adminOnly(admin.ListColleges))
	router.PUT("/api/admin/colleges/:collegeId", adminOnly(admin.UpdateCollege))
	router.DELETE("/api/admin/colleges/:collegeId", adminOnly(admin.DeleteCollege))
	router.POST("/api/admin/colleges/:collegeId/departments", adminOnly(admin.CreateDepartment))
	router.GET("/api/admin/colleges/:collegeId/departments", adminOnly(admin.ListDepartments))
	router.PUT("/api/admin/departments/:departmentId", adminOnly(admin.UpdateDepartment))
	router.DELETE("/api/admin/departments/:departmentId", adminOnly(admin.DeleteDepartment))

	// Students
	router.POST("/api/admin/students", adminOnly(admin.CreateStudent))
	router.POST("/api/admin/students/upload", adminOnly(admin.BulkUploadStudents))
	router.GET("/api/admin/students", adminOnly(admin.ListStudents))
	router.PUT("/api/admin/students/:studentId", adminOnly(admin.UpdateStudent))
	router.DELETE("/api/admin/students/:studentId", adminOnly(admin.DeleteStudent))

	// Hostels, rooms, bunks
	router.POST("/api/admin/hostels", adminOnly(admin.CreateHostel))
	router.GET("/api/admin/hostels", adminOnly(admin.ListHostels))
	router.PUT("/api/admin/hostels/:hostelId", adminOnly(admin.UpdateHostel))
	router.DELETE("/api/admin/hostels/:hostelId", adminOnly(admin.DeleteHostel))
	router.POST("/api/admin/hostels/:hostelId/photo", adminOnly(admin.UploadHostelPhoto))
	router.POST("/api/admin/hostels/:hostelId/rooms", adminOnly(admin.CreateRoom))
	router.GET("/api/admin/hostels/:hostelId/rooms", adminOnly(admin.ListRooms))
	router.PUT("/api/admin/rooms/:roomId", adminOnly(admin.UpdateRoom))
	router.DELETE("/api/admin/rooms/:roomId", adminOnly(admin.DeleteRoom))

	// Porters
	router.GET("/api/admin/porters", adminOnly(admin.ListPorters))
	router.POST("/api/admin/porters/:porterId/approve", adminOnly(admin.ApprovePorter))
	router.POST("/api/admin/porters/:porterId/reject", adminOnly(admin.RejectPorter))
	router.POST("/api/admin/porters/:porterId/suspend", adminOnly(admin.SuspendPorter))

	// Dashboard, search, payment configuration
	router.GET("/api/admin/dashboard", adminOnly(admin.Dashboard))
	router.GET("/api/admin/search", adminOnly(admin.Search))
	router.GET("/api/admin/payments", adminOnly(pay.ListPayments))
	router.GET("/api/admin/payments/stats", adminOnly(pay.PaymentStats))
	router.GET("/api/admin/payments/amount", adminOnly(pay.GetAmount))
	router.POST("/api/admin/payments/amount", adminOnly(pay.SetAmount))
}
