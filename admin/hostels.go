package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"stayhub/db"
	"stayhub/models"
	"stayhub/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const hostelUploadDir = "./static/uploads/hostels"

type hostelRequest struct {
	Name         string `json:"name"`
	Level        int    `json:"level"`
	GenderPolicy string `json:"gender_policy"`
	Description  string `json:"description,omitempty"`
}

func validGenderPolicy(p string) bool {
	switch p {
	case models.GenderMale, models.GenderFemale, models.GenderMixed:
		return true
	}
	return false
}

func CreateHostel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	var req hostelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.GenderPolicy = strings.ToLower(req.GenderPolicy)
	if req.Name == "" || req.Level <= 0 || !validGenderPolicy(req.GenderPolicy) {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, level and a valid gender policy are required")
		return
	}

	now := time.Now()
	hostel := models.Hostel{
		HostelID:     utils.GetUUID(),
		Name:         req.Name,
		Level:        req.Level,
		GenderPolicy: req.GenderPolicy,
		Description:  req.Description,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := db.HostelsCollection.InsertOne(ctx, hostel); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create hostel")
		return
	}
	invalidateHostelCache(hostel.Level)
	utils.RespondWithData(w, http.StatusCreated, hostel)
}

func ListHostels(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	filter := bson.M{}
	if r.URL.Query().Get("include_inactive") != "true" {
		filter["is_active"] = true
	}

	cur, err := db.HostelsCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load hostels")
		return
	}
	defer cur.Close(ctx)

	hostels := []models.Hostel{}
	if err := cur.All(ctx, &hostels); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode hostels")
		return
	}
	utils.RespondWithData(w, http.StatusOK, hostels)
}

func UpdateHostel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	var req hostelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Level > 0 {
		set["level"] = req.Level
	}
	if req.GenderPolicy != "" {
		policy := strings.ToLower(req.GenderPolicy)
		if !validGenderPolicy(policy) {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid gender policy")
			return
		}
		set["gender_policy"] = policy
	}
	if req.Description != "" {
		set["description"] = req.Description
	}

	var hostel models.Hostel
	err := db.HostelsCollection.FindOneAndUpdate(ctx,
		bson.M{"hostelid": ps.ByName("hostelId"), "is_active": true},
		bson.M{"$set": set},
	).Decode(&hostel)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Hostel not found")
		return
	}
	invalidateHostelCache(hostel.Level)
	if level, ok := set["level"].(int); ok && level != hostel.Level {
		invalidateHostelCache(level)
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"message": "Hostel updated"})
}

// DeleteHostel soft-deletes by default. With ?hard=true it removes the
// hostel and cascades over its rooms and bunks; refused while anyone is
// still reserved or checked in.
func DeleteHostel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	hostelID := ps.ByName("hostelId")

	var hostel models.Hostel
	if err := db.HostelsCollection.FindOne(ctx, bson.M{"hostelid": hostelID}).Decode(&hostel); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Hostel not found")
		return
	}

	if r.URL.Query().Get("hard") != "true" {
		if _, err := db.HostelsCollection.UpdateOne(ctx,
			bson.M{"hostelid": hostelID},
			bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}},
		); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete hostel")
			return
		}
		invalidateHostelCache(hostel.Level)
		utils.RespondWithData(w, http.StatusOK, utils.M{"message": "Hostel deactivated"})
		return
	}

	occupants, err := db.StudentsCollection.CountDocuments(ctx, bson.M{
		"assigned_hostel":    hostelID,
		"reservation_status": bson.M{"$in": bson.A{models.ReservationTemporary, models.ReservationConfirmed, models.ReservationCheckedIn}},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check occupants")
		return
	}
	if occupants > 0 {
		utils.RespondWithError(w, http.StatusConflict, "Hostel still has reserved or checked-in students")
		return
	}

	roomIDs, err := roomIDsForHostel(r, hostelID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load rooms")
		return
	}
	if _, err := db.BunksCollection.DeleteMany(ctx, bson.M{"roomid": bson.M{"$in": roomIDs}}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete bunks")
		return
	}
	if _, err := db.RoomsCollection.DeleteMany(ctx, bson.M{"hostelid": hostelID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete rooms")
		return
	}
	if _, err := db.HostelsCollection.DeleteOne(ctx, bson.M{"hostelid": hostelID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete hostel")
		return
	}
	invalidateHostelCache(hostel.Level)
	utils.RespondWithData(w, http.StatusOK, utils.M{"message": "Hostel and its rooms deleted"})
}

// UploadHostelPhoto accepts a multipart image, stores the original and a
// 320x200 thumbnail, and records both paths on the hostel.
func UploadHostelPhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	hostelID := ps.ByName("hostelId")

	count, err := db.HostelsCollection.CountDocuments(ctx, bson.M{"hostelid": hostelID, "is_active": true})
	if err != nil || count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Hostel not found")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "A photo upload is required")
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unsupported image format")
		return
	}

	if err := os.MkdirAll(hostelUploadDir, 0o755); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to prepare upload directory")
		return
	}

	photoPath := fmt.Sprintf("%s/%s.jpg", hostelUploadDir, hostelID)
	thumbPath := fmt.Sprintf("%s/%s_thumb.jpg", hostelUploadDir, hostelID)
	if err := imaging.Save(img, photoPath, imaging.JPEGQuality(85)); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save photo")
		return
	}
	thumb := imaging.Thumbnail(img, 320, 200, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(80)); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save thumbnail")
		return
	}

	if _, err := db.HostelsCollection.UpdateOne(ctx,
		bson.M{"hostelid": hostelID},
		bson.M{"$set": bson.M{
			"photo":      strings.TrimPrefix(photoPath, "."),
			"thumbnail":  strings.TrimPrefix(thumbPath, "."),
			"updated_at": time.Now(),
		}},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record photo")
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{
		"photo":     strings.TrimPrefix(photoPath, "."),
		"thumbnail": strings.TrimPrefix(thumbPath, "."),
	})
}

func roomIDsForHostel(r *http.Request, hostelID string) ([]string, error) {
	ctx := r.Context()
	cur, err := db.RoomsCollection.Find(ctx, bson.M{"hostelid": hostelID},
		options.Find().SetProjection(bson.M{"roomid": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rooms []struct {
		RoomID string `bson:"roomid"`
	}
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rooms))
	for _, room := range rooms {
		ids = append(ids, room.RoomID)
	}
	return ids, nil
}
