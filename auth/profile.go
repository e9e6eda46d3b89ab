package auth

import (
	"net/http"

	"stayhub/db"
	"stayhub/models"
	"stayhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// Me returns the authenticated account's own record.
func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)
	role := utils.GetRoleFromRequest(r)
	if userID == "" || role == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	switch role {
	case models.RoleStudent:
		var student models.Student
		if err := db.StudentsCollection.FindOne(ctx, bson.M{"studentid": userID}).Decode(&student); err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "Account not found")
			return
		}
		utils.RespondWithData(w, http.StatusOK, student)
	case models.RolePorter:
		var porter models.Porter
		if err := db.PortersCollection.FindOne(ctx, bson.M{"porterid": userID}).Decode(&porter); err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "Account not found")
			return
		}
		utils.RespondWithData(w, http.StatusOK, porter)
	case models.RoleAdmin:
		var admin models.Admin
		if err := db.AdminsCollection.FindOne(ctx, bson.M{"adminid": userID}).Decode(&admin); err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "Account not found")
			return
		}
		utils.RespondWithData(w, http.StatusOK, admin)
	default:
		utils.RespondWithError(w, http.StatusForbidden, "Unknown account type")
	}
}

// Logout is stateless on the server; the client discards the token.
func Logout(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	utils.RespondWithData(w, http.StatusOK, utils.M{"message": "Logged out"})
}
