package student

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"stayhub/db"
	"stayhub/models"
	"stayhub/rdx"
	"stayhub/reservation"
	"stayhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const hostelCacheTTL = 5 * time.Minute

// Dashboard returns the student's record with hostel, room and bunk
// resolved to names.
func Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	studentID := utils.GetUserIDFromRequest(r)
	if studentID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var student models.Student
	if err := db.StudentsCollection.FindOne(ctx, bson.M{"studentid": studentID}).Decode(&student); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Student not found")
		return
	}

	data := utils.M{"student": student}
	if student.AssignedHostel != "" {
		var hostel models.Hostel
		if db.HostelsCollection.FindOne(ctx, bson.M{"hostelid": student.AssignedHostel}).Decode(&hostel) == nil {
			data["hostel"] = hostel
		}
	}
	if student.AssignedRoom != "" {
		var room models.Room
		if db.RoomsCollection.FindOne(ctx, bson.M{"roomid": student.AssignedRoom}).Decode(&room) == nil {
			data["room"] = room
		}
	}
	if student.AssignedBunk != "" {
		var bunk models.Bunk
		if db.BunksCollection.FindOne(ctx, bson.M{"bunkid": student.AssignedBunk}).Decode(&bunk) == nil {
			data["bunk"] = bunk
		}
	}
	utils.RespondWithData(w, http.StatusOK, data)
}

// ListHostels returns active hostels for the student's level, filtered by
// gender policy. The per-level list is cached; reservations and sweeps
// invalidate it.
func ListHostels(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	studentID := utils.GetUserIDFromRequest(r)
	if studentID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var student models.Student
	if err := db.StudentsCollection.FindOne(ctx, bson.M{"studentid": studentID}).Decode(&student); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Student not found")
		return
	}

	var hostels []models.Hostel
	cacheKey := rdx.KeyHostelsByLevel(student.Level)
	if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
		if json.Unmarshal([]byte(cached), &hostels) == nil {
			utils.RespondWithData(w, http.StatusOK, filterByGender(hostels, student.Gender))
			return
		}
	}

	cur, err := db.HostelsCollection.Find(ctx, bson.M{"level": student.Level, "is_active": true})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load hostels")
		return
	}
	defer cur.Close(ctx)
	hostels = []models.Hostel{}
	if err := cur.All(ctx, &hostels); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode hostels")
		return
	}

	if raw, err := json.Marshal(hostels); err == nil {
		if err := rdx.RdxSetWithTTL(cacheKey, string(raw), hostelCacheTTL); err != nil {
			log.Printf("student: hostel cache fill failed: %v", err)
		}
	}
	utils.RespondWithData(w, http.StatusOK, filterByGender(hostels, student.Gender))
}

func filterByGender(hostels []models.Hostel, gender string) []models.Hostel {
	if gender == "" {
		return hostels
	}
	out := []models.Hostel{}
	for _, h := range hostels {
		if h.GenderPolicy == models.GenderMixed || h.GenderPolicy == gender {
			out = append(out, h)
		}
	}
	return out
}

// ListRooms returns a hostel's rooms that still have space.
func ListRooms(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	hostelID := ps.ByName("hostelId")

	cur, err := db.RoomsCollection.Find(ctx, bson.M{
		"hostelid":  hostelID,
		"is_active": true,
		"status":    bson.M{"$in": bson.A{models.RoomAvailable, models.RoomPartiallyOccupied}},
	}, options.Find().SetSort(bson.M{"room_number": 1}))
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

// ListBunks returns a room's available bunks.
func ListBunks(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	roomID := ps.ByName("roomId")

	cur, err := db.BunksCollection.Find(ctx, bson.M{
		"roomid":    roomID,
		"is_active": true,
		"status":    models.BunkAvailable,
	}, options.Find().SetSort(bson.M{"bunk_number": 1}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load bunks")
		return
	}
	defer cur.Close(ctx)

	bunks := []models.Bunk{}
	if err := cur.All(ctx, &bunks); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode bunks")
		return
	}
	utils.RespondWithData(w, http.StatusOK, bunks)
}

// GetReservation returns the student's current reservation snapshot,
// including whether the hold has lapsed but not yet been swept.
func GetReservation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	studentID := utils.GetUserIDFromRequest(r)
	if studentID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var student models.Student
	if err := db.StudentsCollection.FindOne(ctx, bson.M{"studentid": studentID}).Decode(&student); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Student not found")
		return
	}

	if student.ReservationStatus == models.ReservationNone || student.AssignedBunk == "" {
		utils.RespondWithData(w, http.StatusOK, utils.M{"status": models.ReservationNone})
		return
	}

	data := utils.M{
		"status":     student.ReservationStatus,
		"expires_at": student.ReservationExpiresAt,
		"lapsed":     reservation.HoldExpired(student.ReservationExpiresAt, time.Now()),
		"roommates":  student.Roommates,
	}
	var hostel models.Hostel
	if db.HostelsCollection.FindOne(ctx, bson.M{"hostelid": student.AssignedHostel}).Decode(&hostel) == nil {
		data["hostel"] = hostel.Name
	}
	var room models.Room
	if db.RoomsCollection.FindOne(ctx, bson.M{"roomid": student.AssignedRoom}).Decode(&room) == nil {
		data["room"] = room.RoomNumber
	}
	var bunk models.Bunk
	if db.BunksCollection.FindOne(ctx, bson.M{"bunkid": student.AssignedBunk}).Decode(&bunk) == nil {
		data["bunk"] = bunk.BunkNumber
	}
	utils.RespondWithData(w, http.StatusOK, data)
}
