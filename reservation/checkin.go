package reservation

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"stayhub/db"
	"stayhub/live"
	"stayhub/models"
	"stayhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type checkInRequest struct {
	PaymentCode string `json:"paymentCode"`
}

// CheckIn converts a held reservation into occupancy. Only a porter of the
// student's assigned hostel may do it, and only with the student's payment
// code in hand.
func CheckIn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	porterID := utils.GetUserIDFromRequest(r)
	if porterID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var porter models.Porter
	if err := db.PortersCollection.FindOne(ctx, bson.M{"porterid": porterID, "is_active": true}).Decode(&porter); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Porter not found")
		return
	}
	if porter.Status != models.PorterApproved || porter.AssignedHostel == "" {
		utils.RespondWithError(w, http.StatusForbidden, "Porter is not assigned to a hostel")
		return
	}

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	studentID := ps.ByName("studentId")
	var student models.Student
	if err := db.StudentsCollection.FindOne(ctx, bson.M{"studentid": studentID, "is_active": true}).Decode(&student); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Student not found")
		return
	}
	if student.AssignedHostel != porter.AssignedHostel {
		utils.RespondWithError(w, http.StatusForbidden, "Student is not assigned to your hostel")
		return
	}

	if err := CheckInAllowed(student, req.PaymentCode); err != nil {
		code := http.StatusConflict
		if errors.Is(err, ErrInvalidCode) {
			code = http.StatusBadRequest
		}
		utils.RespondWithError(w, code, err.Error())
		return
	}

	now := time.Now()
	if HoldExpired(student.ReservationExpiresAt, now) {
		// The sweeper has not caught this one yet; release it here rather
		// than checking in against a dead hold.
		released, err := releaseExpiredStudent(ctx, student, now)
		if err != nil || !released {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to release expired reservation")
			return
		}
		utils.RespondWithError(w, http.StatusGone, "Reservation has expired")
		return
	}

	// Conditional flip keeps a double check-in from counting twice.
	res, err := db.BunksCollection.UpdateOne(ctx,
		bson.M{"bunkid": student.AssignedBunk, "status": models.BunkReserved, "occupied_by": student.StudentID},
		bson.M{
			"$set":   bson.M{"status": models.BunkOccupied, "updated_at": now},
			"$unset": bson.M{"reserved_until": ""},
		},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update bunk")
		return
	}
	if res.ModifiedCount != 1 {
		utils.RespondWithError(w, http.StatusConflict, "Bunk is no longer held by this student")
		return
	}

	if _, err := db.StudentsCollection.UpdateOne(ctx,
		bson.M{"studentid": student.StudentID},
		bson.M{
			"$set":   bson.M{"reservation_status": models.ReservationCheckedIn, "updated_at": now},
			"$unset": bson.M{"reservation_expires_at": ""},
		},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update student")
		return
	}

	var room models.Room
	_ = db.RoomsCollection.FindOne(ctx, bson.M{"roomid": student.AssignedRoom}).Decode(&room)

	live.Feed.BroadcastEvent(live.Event{
		Action:     live.ActionCheckedIn,
		HostelID:   student.AssignedHostel,
		StudentID:  student.StudentID,
		RoomNumber: room.RoomNumber,
	})

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"studentid": student.StudentID,
		"name":      student.FirstName + " " + student.LastName,
		"room":      room.RoomNumber,
		"status":    models.ReservationCheckedIn,
	})
}
