package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"stayhub/db"
	"stayhub/live"
	"stayhub/models"
	"stayhub/notify"
	"stayhub/rdx"
	"stayhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type reserveRequest struct {
	RoomID    string   `json:"roomid,omitempty"`
	BunkID    string   `json:"bunkid"`
	Roommates []string `json:"roommates,omitempty"`
}

// Reserve places a 48-hour hold on a bunk for the authenticated student.
// The bunk claim and the occupancy bump are both conditional updates, so
// two concurrent requests for the last slot resolve to exactly one winner.
func Reserve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	studentID := utils.GetUserIDFromRequest(r)
	if studentID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.BunkID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "A bunk id is required")
		return
	}

	var student models.Student
	if err := db.StudentsCollection.FindOne(ctx, bson.M{"studentid": studentID, "is_active": true}).Decode(&student); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Student not found")
		return
	}
	if err := CheckStudentEligibility(student); err != nil {
		utils.RespondWithError(w, preconditionStatus(err), err.Error())
		return
	}

	var bunk models.Bunk
	if err := db.BunksCollection.FindOne(ctx, bson.M{"bunkid": req.BunkID}).Decode(&bunk); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Bunk not found")
		return
	}
	if req.RoomID != "" && req.RoomID != bunk.RoomID {
		utils.RespondWithError(w, http.StatusBadRequest, "Bunk does not belong to the given room")
		return
	}
	var room models.Room
	if err := db.RoomsCollection.FindOne(ctx, bson.M{"roomid": bunk.RoomID}).Decode(&room); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Room not found")
		return
	}
	var hostel models.Hostel
	if err := db.HostelsCollection.FindOne(ctx, bson.M{"hostelid": room.HostelID}).Decode(&hostel); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Hostel not found")
		return
	}
	if err := CheckPlacement(student, bunk, room, hostel); err != nil {
		utils.RespondWithError(w, preconditionStatus(err), err.Error())
		return
	}

	now := time.Now()
	deadline := HoldDeadline(now)

	// Claim the bunk. The status filter makes this the decision point: of
	// any number of concurrent claims, mongo applies exactly one.
	res, err := db.BunksCollection.UpdateOne(ctx,
		bson.M{"bunkid": bunk.BunkID, "status": models.BunkAvailable, "is_active": true},
		bson.M{"$set": bson.M{
			"status":         models.BunkReserved,
			"occupied_by":    studentID,
			"reserved_until": deadline,
			"updated_at":     now,
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reserve bunk")
		return
	}
	if res.ModifiedCount != 1 {
		utils.RespondWithError(w, http.StatusConflict, ErrBunkUnavailable.Error())
		return
	}

	// Bump occupancy only while below capacity. Losing here means another
	// claim on a sibling bunk filled the room first.
	res, err = db.RoomsCollection.UpdateOne(ctx,
		bson.M{
			"roomid": room.RoomID,
			"$expr":  bson.M{"$lt": bson.A{"$current_occupants", "$capacity"}},
		},
		bson.M{
			"$inc": bson.M{"current_occupants": 1},
			"$set": bson.M{"updated_at": now},
		},
	)
	if err != nil || res.ModifiedCount != 1 {
		releaseBunk(ctx, bunk.BunkID, studentID)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update room")
			return
		}
		utils.RespondWithError(w, http.StatusConflict, ErrRoomFull.Error())
		return
	}
	refreshRoomStatus(ctx, room.RoomID)

	_, err = db.StudentsCollection.UpdateOne(ctx,
		bson.M{"studentid": studentID},
		bson.M{"$set": bson.M{
			"assigned_hostel":        hostel.HostelID,
			"assigned_room":          room.RoomID,
			"assigned_bunk":          bunk.BunkID,
			"roommates":              req.Roommates,
			"reservation_status":     models.ReservationConfirmed,
			"reservation_expires_at": deadline,
			"updated_at":             now,
		}},
	)
	if err != nil {
		// Roll back both inventory writes so the bunk is not stranded.
		releaseBunk(ctx, bunk.BunkID, studentID)
		decrementOccupancy(ctx, room.RoomID)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record reservation")
		return
	}

	if err := rdx.RdxDel(rdx.KeyHostelsByLevel(hostel.Level)); err != nil {
		log.Printf("reservation: cache invalidation failed: %v", err)
	}

	notify.Emit(ctx, notify.Event{
		Type:      notify.ReservationConfirmed,
		StudentID: studentID,
		HostelID:  hostel.HostelID,
		RoomID:    room.RoomID,
		BunkID:    bunk.BunkID,
	})
	notifyRoommates(ctx, studentID, hostel.HostelID, room.RoomID, req.Roommates)

	live.Feed.BroadcastEvent(live.Event{
		Action:     live.ActionReserved,
		HostelID:   hostel.HostelID,
		StudentID:  studentID,
		RoomNumber: room.RoomNumber,
		BunkNumber: bunk.BunkNumber,
	})

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"hostel":     hostel.Name,
		"room":       room.RoomNumber,
		"bunk":       bunk.BunkNumber,
		"expires_at": deadline,
		"status":     models.ReservationConfirmed,
	})
}

func preconditionStatus(err error) int {
	switch {
	case errors.Is(err, ErrPaymentRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrAlreadyReserved), errors.Is(err, ErrBunkUnavailable), errors.Is(err, ErrRoomFull):
		return http.StatusConflict
	case errors.Is(err, ErrLevelMismatch), errors.Is(err, ErrGenderMismatch), errors.Is(err, ErrRoomInactive):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// releaseBunk undoes a claim, but only if the bunk is still held by the
// same student. Safe to call after a partial failure.
func releaseBunk(ctx context.Context, bunkID, studentID string) {
	_, err := db.BunksCollection.UpdateOne(ctx,
		bson.M{"bunkid": bunkID, "status": models.BunkReserved, "occupied_by": studentID},
		bson.M{
			"$set":   bson.M{"status": models.BunkAvailable, "updated_at": time.Now()},
			"$unset": bson.M{"occupied_by": "", "reserved_until": ""},
		},
	)
	if err != nil {
		log.Printf("reservation: compensating release of bunk %s failed: %v", bunkID, err)
	}
}

func decrementOccupancy(ctx context.Context, roomID string) {
	_, err := db.RoomsCollection.UpdateOne(ctx,
		bson.M{"roomid": roomID, "current_occupants": bson.M{"$gt": 0}},
		bson.M{
			"$inc": bson.M{"current_occupants": -1},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		log.Printf("reservation: occupancy rollback for room %s failed: %v", roomID, err)
		return
	}
	refreshRoomStatus(ctx, roomID)
}

// refreshRoomStatus re-derives status from the stored counter. Rooms under
// maintenance keep that status until an admin lifts it.
func refreshRoomStatus(ctx context.Context, roomID string) {
	var room models.Room
	if err := db.RoomsCollection.FindOne(ctx, bson.M{"roomid": roomID}).Decode(&room); err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			log.Printf("reservation: room %s status refresh failed: %v", roomID, err)
		}
		return
	}
	if room.Status == models.RoomMaintenance {
		return
	}
	status := RoomStatusFor(room.CurrentOccupants, room.Capacity)
	if status == room.Status {
		return
	}
	if _, err := db.RoomsCollection.UpdateOne(ctx,
		bson.M{"roomid": roomID},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
	); err != nil {
		log.Printf("reservation: room %s status update failed: %v", roomID, err)
	}
}

// notifyRoommates emails the students a reserver named. Roommate entries
// are matric numbers; unknown ones are skipped quietly.
func notifyRoommates(ctx context.Context, reservedBy, hostelID, roomID string, matricNos []string) {
	for _, matric := range matricNos {
		if matric == "" {
			continue
		}
		var mate models.Student
		err := db.StudentsCollection.FindOne(ctx, bson.M{"matric_no": matric, "is_active": true}).Decode(&mate)
		if err != nil {
			continue
		}
		notify.Emit(ctx, notify.Event{
			Type:       notify.RoommateReserved,
			StudentID:  mate.StudentID,
			ReservedBy: reservedBy,
			HostelID:   hostelID,
			RoomID:     roomID,
		})
	}
}
