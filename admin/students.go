package admin

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stayhub/auth"
	"stayhub/db"
	"stayhub/models"
	"stayhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type studentRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	MatricNo     string `json:"matric_no"`
	Email        string `json:"email"`
	Gender       string `json:"gender,omitempty"`
	Level        int    `json:"level"`
	CollegeID    string `json:"collegeid"`
	DepartmentID string `json:"departmentid"`
}

func (req *studentRequest) normalize() {
	req.MatricNo = strings.ToUpper(strings.TrimSpace(req.MatricNo))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
}

func (req *studentRequest) validate() string {
	if req.FirstName == "" || req.LastName == "" {
		return "First and last name are required"
	}
	if req.MatricNo == "" || req.Email == "" {
		return "Matric number and email are required"
	}
	if req.Level <= 0 {
		return "A valid level is required"
	}
	return ""
}

// newStudent builds the record with the first-login default password.
func newStudent(req studentRequest) (models.Student, error) {
	hash, err := auth.HashPassword(utils.DefaultPassword(req.FirstName))
	if err != nil {
		return models.Student{}, err
	}
	now := time.Now()
	return models.Student{
		StudentID:         utils.GetUUID(),
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		MatricNo:          req.MatricNo,
		Email:             req.Email,
		PasswordHash:      hash,
		Gender:            strings.ToLower(req.Gender),
		Level:             req.Level,
		CollegeID:         req.CollegeID,
		DepartmentID:      req.DepartmentID,
		PaymentStatus:     models.PaymentPending,
		ReservationStatus: models.ReservationNone,
		FirstLogin:        true,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func CreateStudent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.normalize()
	if msg := req.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	count, err := db.StudentsCollection.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"matric_no": req.MatricNo},
		bson.M{"email": req.Email},
	}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check existing students")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "A student with this matric number or email already exists")
		return
	}

	student, err := newStudent(req)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	if _, err := db.StudentsCollection.InsertOne(ctx, student); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create student")
		return
	}
	utils.RespondWithData(w, http.StatusCreated, student)
}

// BulkUploadStudents ingests a CSV with the header
// first_name,last_name,matric_no,email,gender,level,collegeid,departmentid.
// Rows that fail validation or collide are reported, not fatal.
func BulkUploadStudents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	file, _, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "A CSV file upload is required")
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to read CSV header")
		return
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"first_name", "last_name", "matric_no", "email", "level"} {
		if _, ok := col[required]; !ok {
			utils.RespondWithError(w, http.StatusBadRequest, "CSV is missing the "+required+" column")
			return
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	created := 0
	var failures []utils.M
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			failures = append(failures, utils.M{"line": line, "error": "malformed row"})
			continue
		}

		level, _ := strconv.Atoi(field(row, "level"))
		req := studentRequest{
			FirstName:    field(row, "first_name"),
			LastName:     field(row, "last_name"),
			MatricNo:     field(row, "matric_no"),
			Email:        field(row, "email"),
			Gender:       field(row, "gender"),
			Level:        level,
			CollegeID:    field(row, "collegeid"),
			DepartmentID: field(row, "departmentid"),
		}
		req.normalize()
		if msg := req.validate(); msg != "" {
			failures = append(failures, utils.M{"line": line, "matric_no": req.MatricNo, "error": msg})
			continue
		}

		count, err := db.StudentsCollection.CountDocuments(ctx, bson.M{"$or": bson.A{
			bson.M{"matric_no": req.MatricNo},
			bson.M{"email": req.Email},
		}})
		if err != nil {
			failures = append(failures, utils.M{"line": line, "matric_no": req.MatricNo, "error": "lookup failed"})
			continue
		}
		if count > 0 {
			failures = append(failures, utils.M{"line": line, "matric_no": req.MatricNo, "error": "duplicate"})
			continue
		}

		student, err := newStudent(req)
		if err != nil {
			failures = append(failures, utils.M{"line": line, "matric_no": req.MatricNo, "error": "hash failed"})
			continue
		}
		if _, err := db.StudentsCollection.InsertOne(ctx, student); err != nil {
			failures = append(failures, utils.M{"line": line, "matric_no": req.MatricNo, "error": "insert failed"})
			continue
		}
		created++
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"created":  created,
		"failed":   len(failures),
		"failures": failures,
	})
}

func ListStudents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	q := utils.ParseQueryOptions(r)
	query := r.URL.Query()

	filter := bson.M{"is_active": true}
	if level, err := strconv.Atoi(query.Get("level")); err == nil && level > 0 {
		filter["level"] = level
	}
	if v := query.Get("collegeid"); v != "" {
		filter["collegeid"] = v
	}
	if v := query.Get("departmentid"); v != "" {
		filter["departmentid"] = v
	}
	if v := query.Get("payment_status"); v != "" {
		filter["payment_status"] = v
	}
	if v := query.Get("gender"); v != "" {
		filter["gender"] = strings.ToLower(v)
	}
	if q.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"first_name": bson.M{"$regex": q.Search, "$options": "i"}},
			bson.M{"last_name": bson.M{"$regex": q.Search, "$options": "i"}},
			bson.M{"matric_no": bson.M{"$regex": q.Search, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": q.Search, "$options": "i"}},
		}
	}

	opts := options.Find().
		SetSort(bson.M{"last_name": 1}).
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit))
	cur, err := db.StudentsCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load students")
		return
	}
	defer cur.Close(ctx)

	students := []models.Student{}
	if err := cur.All(ctx, &students); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode students")
		return
	}

	total, _ := db.StudentsCollection.CountDocuments(ctx, filter)
	utils.RespondWithData(w, http.StatusOK, utils.M{
		"students": students,
		"total":    total,
		"page":     q.Page,
		"limit":    q.Limit,
	})
}

func UpdateStudent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	var req studentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.normalize()

	set := bson.M{"updated_at": time.Now()}
	if req.FirstName != "" {
		set["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		set["last_name"] = req.LastName
	}
	if req.Email != "" {
		set["email"] = req.Email
	}
	if req.Gender != "" {
		set["gender"] = strings.ToLower(req.Gender)
	}
	if req.Level > 0 {
		set["level"] = req.Level
	}
	if req.CollegeID != "" {
		set["collegeid"] = req.CollegeID
	}
	if req.DepartmentID != "" {
		set["departmentid"] = req.DepartmentID
	}

	res, err := db.StudentsCollection.UpdateOne(ctx,
		bson.M{"studentid": ps.ByName("studentId"), "is_active": true},
		bson.M{"$set": set},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update student")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Student not found")
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"message": "Student updated"})
}

func DeleteStudent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	res, err := db.StudentsCollection.UpdateOne(ctx,
		bson.M{"studentid": ps.ByName("studentId"), "is_active": true},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete student")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Student not found")
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"message": "Student deleted"})
}
