package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"stayhub/db"
	"stayhub/models"
	"stayhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type collegeRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	DeanName    string `json:"dean_name,omitempty"`
	DeanEmail   string `json:"dean_email,omitempty"`
}

func CreateCollege(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	var req collegeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and code are required")
		return
	}

	count, err := db.CollegesCollection.CountDocuments(ctx, bson.M{"code": req.Code, "is_active": true})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check existing colleges")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "A college with this code already exists")
		return
	}

	now := time.Now()
	college := models.College{
		CollegeID:   utils.GetUUID(),
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		DeanName:    req.DeanName,
		DeanEmail:   req.DeanEmail,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := db.CollegesCollection.InsertOne(ctx, college); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create college")
		return
	}
	utils.RespondWithData(w, http.StatusCreated, college)
}

func ListColleges(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	cur, err := db.CollegesCollection.Find(ctx, bson.M{"is_active": true},
		options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load colleges")
		return
	}
	defer cur.Close(ctx)

	colleges := []models.College{}
	if err := cur.All(ctx, &colleges); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode colleges")
		return
	}
	utils.RespondWithData(w, http.StatusOK, colleges)
}

func UpdateCollege(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	var req collegeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Code != "" {
		set["code"] = req.Code
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.DeanName != "" {
		set["dean_name"] = req.DeanName
	}
	if req.DeanEmail != "" {
		set["dean_email"] = req.DeanEmail
	}

	res, err := db.CollegesCollection.UpdateOne(ctx,
		bson.M{"collegeid": ps.ByName("collegeId"), "is_active": true},
		bson.M{"$set": set},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update college")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "College not found")
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"message": "College updated"})
}

// DeleteCollege soft-deletes; departments under it stay but stop resolving.
func DeleteCollege(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	res, err := db.CollegesCollection.UpdateOne(ctx,
		bson.M{"collegeid": ps.ByName("collegeId"), "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete college")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "College not found")
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"message": "College deleted"})
}

type departmentRequest struct {
	Name            string `json:"name"`
	Code            string `json:"code"`
	Description     string `json:"description,omitempty"`
	HodName         string `json:"hod_name,omitempty"`
	HodEmail        string `json:"hod_email,omitempty"`
	AvailableLevels []int  `json:"available_levels,omitempty"`
}

func CreateDepartment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	collegeID := ps.ByName("collegeId")

	count, err := db.CollegesCollection.CountDocuments(ctx, bson.M{"collegeid": collegeID, "is_active": true})
	if err != nil || count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "College not found")
		return
	}

	var req departmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Code == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and code are required")
		return
	}

	now := time.Now()
	department := models.Department{
		DepartmentID:    utils.GetUUID(),
		Name:            req.Name,
		Code:            req.Code,
		Description:     req.Description,
		HodName:         req.HodName,
		HodEmail:        req.HodEmail,
		AvailableLevels: req.AvailableLevels,
		CollegeID:       collegeID,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := db.DepartmentsCollection.InsertOne(ctx, department); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create department")
		return
	}
	utils.RespondWithData(w, http.StatusCreated, department)
}

func ListDepartments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	cur, err := db.DepartmentsCollection.Find(ctx,
		bson.M{"collegeid": ps.ByName("collegeId"), "is_active": true},
		options.Find().SetSort(bson.M{"name": 1}),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load departments")
		return
	}
	defer cur.Close(ctx)

	departments := []models.Department{}
	if err := cur.All(ctx, &departments); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode departments")
		return
	}
	utils.RespondWithData(w, http.StatusOK, departments)
}

func UpdateDepartment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	var req departmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Code != "" {
		set["code"] = req.Code
	}
	if req.Description != "" {
		set["description"] = req.Description
	}
	if req.HodName != "" {
		set["hod_name"] = req.HodName
	}
	if req.HodEmail != "" {
		set["hod_email"] = req.HodEmail
	}
	if len(req.AvailableLevels) > 0 {
		set["available_levels"] = req.AvailableLevels
	}

	res, err := db.DepartmentsCollection.UpdateOne(ctx,
		bson.M{"departmentid": ps.ByName("departmentId"), "is_active": true},
		bson.M{"$set": set},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update department")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Department not found")
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"message": "Department updated"})
}

func DeleteDepartment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	res, err := db.DepartmentsCollection.UpdateOne(ctx,
		bson.M{"departmentid": ps.ByName("departmentId"), "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete department")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Department not found")
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"message": "Department deleted"})
}
