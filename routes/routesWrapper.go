package routes

import (
	"net/http"

	"stayhub/ratelim"
	"stayhub/utils"

	"github.com/julienschmidt/httprouter"
)

func RoutesWrapper(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	AddAuthRoutes(router, rateLimiter)
	AddAdminRoutes(router, rateLimiter)
	AddStudentRoutes(router, rateLimiter)
	AddPorterRoutes(router, rateLimiter)
	AddPayRoutes(router, rateLimiter)
	AddStaticRoutes(router)

	router.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "ok"})
	})
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}
