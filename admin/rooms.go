package admin

import (
	"encoding/json"
	"fmt"
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

type roomRequest struct {
	RoomNumber string `json:"room_number"`
	Capacity   int    `json:"capacity"`
}

// CreateRoom adds a room and derives its bunks: one bunk frame per two bed
// spaces, numbered B1..Bn.
func CreateRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	hostelID := ps.ByName("hostelId")

	var hostel models.Hostel
	if err := db.HostelsCollection.FindOne(ctx, bson.M{"hostelid": hostelID, "is_active": true}).Decode(&hostel); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Hostel not found")
		return
	}

	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoomNumber == "" || req.Capacity < 2 {
		utils.RespondWithError(w, http.StatusBadRequest, "A room number and a capacity of at least 2 are required")
		return
	}

	count, err := db.RoomsCollection.CountDocuments(ctx, bson.M{"hostelid": hostelID, "room_number": req.RoomNumber, "is_active": true})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check existing rooms")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "A room with this number already exists in the hostel")
		return
	}

	now := time.Now()
	room := models.Room{
		RoomID:     utils.GetUUID(),
		RoomNumber: req.RoomNumber,
		Capacity:   req.Capacity,
		Level:      hostel.Level,
		HostelID:   hostelID,
		Status:     models.RoomAvailable,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := db.RoomsCollection.InsertOne(ctx, room); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create room")
		return
	}

	bunks := makeBunks(room.RoomID, 0, req.Capacity/2, now)
	if len(bunks) > 0 {
		if _, err := db.BunksCollection.InsertMany(ctx, bunks); err != nil {
			// Roll the room back rather than leave it without inventory.
			_, _ = db.RoomsCollection.DeleteOne(ctx, bson.M{"roomid": room.RoomID})
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create bunks")
			return
		}
	}

	if _, err := db.HostelsCollection.UpdateOne(ctx,
		bson.M{"hostelid": hostelID},
		bson.M{"$inc": bson.M{"total_rooms": 1}, "$set": bson.M{"updated_at": now}},
	); err != nil {
		log.Printf("admin: total_rooms bump for %s failed: %v", hostelID, err)
	}
	invalidateHostelCache(hostel.Level)
	utils.RespondWithData(w, http.StatusCreated, utils.M{"room": room, "bunks": len(bunks)})
}

func makeBunks(roomID string, from, to int, now time.Time) []interface{} {
	bunks := make([]interface{}, 0, to-from)
	for i := from + 1; i <= to; i++ {
		bunks = append(bunks, models.Bunk{
			BunkID:     utils.GetUUID(),
			BunkNumber: fmt.Sprintf("B%d", i),
			RoomID:     roomID,
			Status:     models.BunkAvailable,
			IsActive:   true,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	return bunks
}

// ListRooms returns every room of a hostel, bunks included.
func ListRooms(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	cur, err := db.RoomsCollection.Find(ctx,
		bson.M{"hostelid": ps.ByName("hostelId"), "is_active": true},
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

type roomUpdateRequest struct {
	Capacity int    `json:"capacity,omitempty"`
	Status   string `json:"status,omitempty"`
}

// UpdateRoom changes capacity or flips maintenance. Growing capacity adds
// bunks; shrinking removes only unoccupied ones and fails if the occupied
// count no longer fits.
func UpdateRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	roomID := ps.ByName("roomId")

	var room models.Room
	if err := db.RoomsCollection.FindOne(ctx, bson.M{"roomid": roomID, "is_active": true}).Decode(&room); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Room not found")
		return
	}

	var req roomUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	now := time.Now()
	if req.Capacity > 0 && req.Capacity != room.Capacity {
		if err := reconcileBunks(r, room, req.Capacity, now); err != nil {
			utils.RespondWithError(w, http.StatusConflict, err.Error())
			return
		}
		if _, err := db.RoomsCollection.UpdateOne(ctx,
			bson.M{"roomid": roomID},
			bson.M{"$set": bson.M{"capacity": req.Capacity, "updated_at": now}},
		); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update capacity")
			return
		}
	}

	switch req.Status {
	case "":
	case models.RoomMaintenance:
		if _, err := db.RoomsCollection.UpdateOne(ctx,
			bson.M{"roomid": roomID},
			bson.M{"$set": bson.M{"status": models.RoomMaintenance, "updated_at": now}},
		); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update status")
			return
		}
	case models.RoomAvailable:
		// Lifting maintenance re-derives status from occupancy.
		capacity := room.Capacity
		if req.Capacity > 0 {
			capacity = req.Capacity
		}
		status := reservation.RoomStatusFor(room.CurrentOccupants, capacity)
		if _, err := db.RoomsCollection.UpdateOne(ctx,
			bson.M{"roomid": roomID},
			bson.M{"$set": bson.M{"status": status, "updated_at": now}},
		); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update status")
			return
		}
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "Status may only be set to maintenance or available")
		return
	}

	invalidateHostelCache(room.Level)
	utils.RespondWithData(w, http.StatusOK, utils.M{"message": "Room updated"})
}

func reconcileBunks(r *http.Request, room models.Room, newCapacity int, now time.Time) error {
	ctx := r.Context()
	target := newCapacity / 2

	existing, err := db.BunksCollection.CountDocuments(ctx, bson.M{"roomid": room.RoomID, "is_active": true})
	if err != nil {
		return fmt.Errorf("failed to count bunks")
	}

	switch {
	case int64(target) > existing:
		bunks := makeBunks(room.RoomID, int(existing), target, now)
		if _, err := db.BunksCollection.InsertMany(ctx, bunks); err != nil {
			return fmt.Errorf("failed to add bunks")
		}
	case int64(target) < existing:
		excess := existing - int64(target)
		cur, err := db.BunksCollection.Find(ctx,
			bson.M{"roomid": room.RoomID, "is_active": true, "status": models.BunkAvailable},
			options.Find().SetSort(bson.M{"bunk_number": -1}).SetLimit(excess),
		)
		if err != nil {
			return fmt.Errorf("failed to load removable bunks")
		}
		defer cur.Close(ctx)

		var removable []models.Bunk
		if err := cur.All(ctx, &removable); err != nil {
			return fmt.Errorf("failed to decode bunks")
		}
		if int64(len(removable)) < excess {
			return fmt.Errorf("cannot shrink: %d bunks are reserved or occupied", existing-int64(len(removable)))
		}
		ids := make([]string, 0, len(removable))
		for _, bunk := range removable {
			ids = append(ids, bunk.BunkID)
		}
		if _, err := db.BunksCollection.DeleteMany(ctx, bson.M{"bunkid": bson.M{"$in": ids}}); err != nil {
			return fmt.Errorf("failed to remove bunks")
		}
	}
	return nil
}

// DeleteRoom soft-deletes; refused while anyone holds a bunk in it.
func DeleteRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	roomID := ps.ByName("roomId")

	var room models.Room
	if err := db.RoomsCollection.FindOne(ctx, bson.M{"roomid": roomID, "is_active": true}).Decode(&room); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Room not found")
		return
	}
	if room.CurrentOccupants > 0 {
		utils.RespondWithError(w, http.StatusConflict, "Room still has reserved or checked-in students")
		return
	}

	now := time.Now()
	if _, err := db.RoomsCollection.UpdateOne(ctx,
		bson.M{"roomid": roomID},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": now}},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete room")
		return
	}
	if _, err := db.BunksCollection.UpdateMany(ctx,
		bson.M{"roomid": roomID},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": now}},
	); err != nil {
		log.Printf("admin: deactivating bunks of room %s failed: %v", roomID, err)
	}
	if _, err := db.HostelsCollection.UpdateOne(ctx,
		bson.M{"hostelid": room.HostelID},
		bson.M{"$inc": bson.M{"total_rooms": -1}, "$set": bson.M{"updated_at": now}},
	); err != nil {
		log.Printf("admin: total_rooms decrement for %s failed: %v", room.HostelID, err)
	}
	invalidateHostelCache(room.Level)
	utils.RespondWithData(w, http.StatusOK, utils.M{"message": "Room deleted"})
}

func invalidateHostelCache(level int) {
	if err := rdx.RdxDel(rdx.KeyHostelsByLevel(level)); err != nil {
		log.Printf("admin: hostel cache invalidation failed: %v", err)
	}
}
