package porter

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"stayhub/auth"
	"stayhub/db"
	"stayhub/mailer"
	"stayhub/models"
	"stayhub/notify"
	"stayhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type applyRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
}

// Apply registers a pending porter application. The account cannot log in
// until an admin approves it and assigns a hostel.
func Apply(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || len(req.Password) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, email and a password of at least 8 characters are required")
		return
	}

	count, err := db.PortersCollection.CountDocuments(ctx, bson.M{"email": req.Email})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check existing applications")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "An application with this email already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	now := time.Now()
	porter := models.Porter{
		PorterID:     utils.GetUUID(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Status:       models.PorterPending,
		AppliedAt:    now,
		FirstLogin:   true,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := db.PortersCollection.InsertOne(ctx, porter); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save application")
		return
	}

	if err := mailer.Send(porter.Email, "Application Received - StayHub", mailer.PorterApplicationReceived(porter.FirstName)); err != nil {
		log.Printf("porter: acknowledgement mail to %s failed: %v", porter.Email, err)
	}
	notify.Emit(ctx, notify.Event{
		Type:  notify.PorterApplication,
		Email: porter.Email,
	})

	utils.RespondWithData(w, http.StatusCreated, utils.M{
		"porterid": porter.PorterID,
		"status":   porter.Status,
	})
}

// Dashboard summarizes the porter's hostel: room and bunk counts, how many
// students are checked in, and how many holds are outstanding.
func Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	porter, ok := approvedPorter(w, r)
	if !ok {
		return
	}

	var hostel models.Hostel
	if err := db.HostelsCollection.FindOne(ctx, bson.M{"hostelid": porter.AssignedHostel}).Decode(&hostel); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Assigned hostel not found")
		return
	}

	roomIDs, err := hostelRoomIDs(r, porter.AssignedHostel)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load rooms")
		return
	}

	totalBunks, _ := db.BunksCollection.CountDocuments(ctx, bson.M{"roomid": bson.M{"$in": roomIDs}, "is_active": true})
	reserved, _ := db.BunksCollection.CountDocuments(ctx, bson.M{"roomid": bson.M{"$in": roomIDs}, "status": models.BunkReserved})
	occupied, _ := db.BunksCollection.CountDocuments(ctx, bson.M{"roomid": bson.M{"$in": roomIDs}, "status": models.BunkOccupied})
	checkedIn, _ := db.StudentsCollection.CountDocuments(ctx, bson.M{
		"assigned_hostel":    porter.AssignedHostel,
		"reservation_status": models.ReservationCheckedIn,
	})
	pendingHolds, _ := db.StudentsCollection.CountDocuments(ctx, bson.M{
		"assigned_hostel":    porter.AssignedHostel,
		"reservation_status": bson.M{"$in": bson.A{models.ReservationTemporary, models.ReservationConfirmed}},
	})

	recent := []models.Student{}
	recentCur, err := db.StudentsCollection.Find(ctx,
		bson.M{
			"assigned_hostel":    porter.AssignedHostel,
			"reservation_status": bson.M{"$ne": models.ReservationNone},
		},
		options.Find().SetSort(bson.M{"updated_at": -1}).SetLimit(10),
	)
	if err == nil {
		defer recentCur.Close(ctx)
		_ = recentCur.All(ctx, &recent)
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"hostel":        hostel,
		"rooms":         len(roomIDs),
		"bunks":         totalBunks,
		"reserved":      reserved,
		"occupied":      occupied,
		"checked_in":    checkedIn,
		"pending_holds": pendingHolds,
		"recent":        recent,
	})
}

// ListStudents returns students assigned to the porter's hostel, optionally
// filtered by reservation status.
func ListStudents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	porter, ok := approvedPorter(w, r)
	if !ok {
		return
	}
	q := utils.ParseQueryOptions(r)

	filter := bson.M{"assigned_hostel": porter.AssignedHostel, "is_active": true}
	if q.Status != "" {
		filter["reservation_status"] = q.Status
	}
	if q.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"first_name": bson.M{"$regex": q.Search, "$options": "i"}},
			bson.M{"last_name": bson.M{"$regex": q.Search, "$options": "i"}},
			bson.M{"matric_no": bson.M{"$regex": q.Search, "$options": "i"}},
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

// ListRooms returns every room in the porter's hostel with its occupancy.
func ListRooms(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	porter, ok := approvedPorter(w, r)
	if !ok {
		return
	}

	cur, err := db.RoomsCollection.Find(ctx,
		bson.M{"hostelid": porter.AssignedHostel},
		options.Find().SetSort(bson.M{"room_number": 1}),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load rooms")
		return
	}
	defer cur.Close(ctx)

	rooms := []models.Room{}
	if err := cur.All(ctx, &rooms); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode rooms")
		return
	}
	utils.RespondWithData(w, http.StatusOK, rooms)
}

func approvedPorter(w http.ResponseWriter, r *http.Request) (models.Porter, bool) {
	porterID := utils.GetUserIDFromRequest(r)
	var porter models.Porter
	if porterID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return porter, false
	}
	if err := db.PortersCollection.FindOne(r.Context(), bson.M{"porterid": porterID, "is_active": true}).Decode(&porter); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Porter not found")
		return porter, false
	}
	if porter.Status != models.PorterApproved || porter.AssignedHostel == "" {
		utils.RespondWithError(w, http.StatusForbidden, "Porter is not assigned to a hostel")
		return porter, false
	}
	return porter, true
}

func hostelRoomIDs(r *http.Request, hostelID string) ([]string, error) {
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
