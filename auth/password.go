package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stayhub/config"
	"stayhub/db"
	"stayhub/mailer"
	"stayhub/models"
	"stayhub/rdx"
	"stayhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const resetTokenTTL = time.Hour

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// accountCollection maps a role onto its collection and id field. The
// switch is closed: an unknown role is an error, never a fall-through.
func accountCollection(role string) (*mongo.Collection, string, error) {
	switch role {
	case models.RoleStudent:
		return db.StudentsCollection, "studentid", nil
	case models.RolePorter:
		return db.PortersCollection, "porterid", nil
	case models.RoleAdmin:
		return db.AdminsCollection, "adminid", nil
	default:
		return nil, "", fmt.Errorf("unknown role %q", role)
	}
}

// ChangePassword updates the authenticated account's password and clears
// the first-login flag.
func ChangePassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	userID := utils.GetUserIDFromRequest(r)
	role := utils.GetRoleFromRequest(r)
	if userID == "" || role == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.NewPassword) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "New password must be at least 8 characters")
		return
	}

	coll, idField, err := accountCollection(role)
	if err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Unknown account type")
		return
	}

	var account struct {
		PasswordHash string `bson:"password_hash"`
	}
	if err := coll.FindOne(ctx, bson.M{idField: userID}).Decode(&account); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Account not found")
		return
	}
	if !passwordMatches(account.PasswordHash, req.CurrentPassword) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	if _, err := coll.UpdateOne(ctx,
		bson.M{idField: userID},
		bson.M{"$set": bson.M{"password_hash": hash, "first_login": false, "updated_at": time.Now()}},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"message": "Password changed"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword issues a one-hour reset token over email. The response is
// the same whether or not the address exists.
func ForgotPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email is required")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	role := ""
	userID := ""
	var admin models.Admin
	var porter models.Porter
	var student models.Student
	switch {
	case db.AdminsCollection.FindOne(ctx, bson.M{"email": email, "is_active": true}).Decode(&admin) == nil:
		role, userID = models.RoleAdmin, admin.AdminID
	case db.PortersCollection.FindOne(ctx, bson.M{"email": email, "is_active": true}).Decode(&porter) == nil:
		role, userID = models.RolePorter, porter.PorterID
	case db.StudentsCollection.FindOne(ctx, bson.M{"email": email, "is_active": true}).Decode(&student) == nil:
		role, userID = models.RoleStudent, student.StudentID
	}

	if role != "" {
		token := utils.GenerateRandomString(48)
		if err := rdx.RdxSetWithTTL(rdx.KeyResetToken(token), role+":"+userID, resetTokenTTL); err == nil {
			resetURL := config.Cfg.FrontendURL + "/reset-password?token=" + token
			if err := mailer.Send(email, "Password Reset - StayHub", mailer.PasswordReset(resetURL)); err != nil {
				utils.RespondWithError(w, http.StatusInternalServerError, "Failed to send reset email")
				return
			}
		}
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"message": "If the email exists, a reset link has been sent"})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPassword consumes a reset token and sets the new password.
func ResetPassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Token and new password are required")
		return
	}
	if len(req.NewPassword) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "New password must be at least 8 characters")
		return
	}

	stored, err := rdx.RdxGet(rdx.KeyResetToken(req.Token))
	if err != nil || stored == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired reset token")
		return
	}
	role, userID, found := strings.Cut(stored, ":")
	if !found {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired reset token")
		return
	}

	coll, idField, err := accountCollection(role)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired reset token")
		return
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	if _, err := coll.UpdateOne(ctx,
		bson.M{idField: userID},
		bson.M{"$set": bson.M{"password_hash": hash, "first_login": false, "updated_at": time.Now()}},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update password")
		return
	}
	_ = rdx.RdxDel(rdx.KeyResetToken(req.Token))
	utils.RespondWithData(w, http.StatusOK, utils.M{"message": "Password has been reset"})
}
