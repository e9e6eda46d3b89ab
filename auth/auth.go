package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"stayhub/db"
	"stayhub/middleware"
	"stayhub/models"
	"stayhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token      string      `json:"token"`
	Role       string      `json:"role"`
	FirstLogin bool        `json:"first_login"`
	User       interface{} `json:"user"`
}

// Login authenticates any account type from one endpoint. An identifier
// with an "@" is an email (admin first, then porter); anything else is a
// student matric number.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Identifier = strings.TrimSpace(req.Identifier)
	if req.Identifier == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Identifier and password are required")
		return
	}

	if strings.Contains(req.Identifier, "@") {
		loginByEmail(w, r, req)
		return
	}
	loginStudent(w, r, req)
}

func loginByEmail(w http.ResponseWriter, r *http.Request, req loginRequest) {
	ctx := r.Context()
	email := strings.ToLower(req.Identifier)

	var admin models.Admin
	if err := db.AdminsCollection.FindOne(ctx, bson.M{"email": email, "is_active": true}).Decode(&admin); err == nil {
		if !passwordMatches(admin.PasswordHash, req.Password) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		issueToken(w, r, admin.AdminID, models.RoleAdmin, false, admin)
		return
	}

	var porter models.Porter
	if err := db.PortersCollection.FindOne(ctx, bson.M{"email": email, "is_active": true}).Decode(&porter); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if porter.Status == models.PorterPending {
		utils.RespondWithError(w, http.StatusForbidden, "Your application is still under review")
		return
	}
	if porter.Status != models.PorterApproved {
		utils.RespondWithError(w, http.StatusForbidden, "Account is not active")
		return
	}
	if !passwordMatches(porter.PasswordHash, req.Password) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	issueToken(w, r, porter.PorterID, models.RolePorter, porter.FirstLogin, porter)
}

func loginStudent(w http.ResponseWriter, r *http.Request, req loginRequest) {
	ctx := r.Context()
	matric := strings.ToUpper(req.Identifier)

	var student models.Student
	if err := db.StudentsCollection.FindOne(ctx, bson.M{"matric_no": matric, "is_active": true}).Decode(&student); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !passwordMatches(student.PasswordHash, req.Password) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	issueToken(w, r, student.StudentID, models.RoleStudent, student.FirstLogin, student)
}

func issueToken(w http.ResponseWriter, r *http.Request, userID, role string, firstLogin bool, user interface{}) {
	token, err := middleware.GenerateToken(userID, role)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	touchLastLogin(r, userID, role)
	utils.RespondWithData(w, http.StatusOK, loginResponse{
		Token:      token,
		Role:       role,
		FirstLogin: firstLogin,
		User:       user,
	})
}

func touchLastLogin(r *http.Request, userID, role string) {
	update := bson.M{"$set": bson.M{"last_login": time.Now()}}
	ctx := r.Context()
	switch role {
	case models.RoleStudent:
		db.StudentsCollection.UpdateOne(ctx, bson.M{"studentid": userID}, update)
	case models.RolePorter:
		db.PortersCollection.UpdateOne(ctx, bson.M{"porterid": userID}, update)
	case models.RoleAdmin:
		db.AdminsCollection.UpdateOne(ctx, bson.M{"adminid": userID}, update)
	}
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword wraps bcrypt for the account-creation paths.
func HashPassword(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(out), err
}
