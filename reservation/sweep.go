package reservation

import (
	"context"
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
)

const sweepInterval = 15 * time.Minute

// ReleaseExpired lets a porter sweep their own hostel on demand. The same
// release path runs periodically in the background, so this is a
// convenience, not the safety net.
func ReleaseExpired(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

	released, err := sweepHostel(ctx, porter.AssignedHostel, time.Now())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Sweep failed")
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"releasedCount": released})
}

// StartSweeper runs the expiry sweep on a fixed interval until ctx is
// cancelled. Run it in its own goroutine from main.
func StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	log.Printf("[sweeper] releasing expired reservations every %s", sweepInterval)
	for {
		select {
		case <-ticker.C:
			released, err := SweepAll(ctx)
			if err != nil {
				log.Printf("[sweeper] sweep failed: %v", err)
				continue
			}
			if released > 0 {
				log.Printf("[sweeper] released %d expired reservations", released)
			}
		case <-ctx.Done():
			return
		}
	}
}

// SweepAll releases every expired hold system-wide and reports how many.
func SweepAll(ctx context.Context) (int, error) {
	return sweepFilter(ctx, bson.M{}, time.Now())
}

func sweepHostel(ctx context.Context, hostelID string, now time.Time) (int, error) {
	return sweepFilter(ctx, bson.M{"assigned_hostel": hostelID}, now)
}

func sweepFilter(ctx context.Context, extra bson.M, now time.Time) (int, error) {
	filter := bson.M{
		"reservation_status":     bson.M{"$in": bson.A{models.ReservationTemporary, models.ReservationConfirmed}},
		"reservation_expires_at": bson.M{"$lt": now},
	}
	for k, v := range extra {
		filter[k] = v
	}

	cur, err := db.StudentsCollection.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var expired []models.Student
	if err := cur.All(ctx, &expired); err != nil {
		return 0, err
	}

	released := 0
	for _, student := range expired {
		ok, err := releaseExpiredStudent(ctx, student, now)
		if err != nil {
			log.Printf("[sweeper] release for student %s failed: %v", student.StudentID, err)
			continue
		}
		if ok {
			released++
		}
	}
	return released, nil
}

// releaseExpiredStudent frees one dead hold. The bunk update is the
// idempotence gate: if another sweep already released it, ModifiedCount is
// zero and the rest is skipped.
func releaseExpiredStudent(ctx context.Context, student models.Student, now time.Time) (bool, error) {
	res, err := db.BunksCollection.UpdateOne(ctx,
		bson.M{
			"bunkid":         student.AssignedBunk,
			"status":         models.BunkReserved,
			"occupied_by":    student.StudentID,
			"reserved_until": bson.M{"$lt": now},
		},
		bson.M{
			"$set":   bson.M{"status": models.BunkAvailable, "updated_at": now},
			"$unset": bson.M{"occupied_by": "", "reserved_until": ""},
		},
	)
	if err != nil {
		return false, err
	}
	if res.ModifiedCount != 1 {
		return false, nil
	}

	decrementOccupancy(ctx, student.AssignedRoom)

	hostelID := student.AssignedHostel
	roomID := student.AssignedRoom
	if _, err := db.StudentsCollection.UpdateOne(ctx,
		bson.M{"studentid": student.StudentID},
		bson.M{
			"$set": bson.M{"reservation_status": models.ReservationExpired, "updated_at": now},
			"$unset": bson.M{
				"assigned_hostel":        "",
				"assigned_room":          "",
				"assigned_bunk":          "",
				"reservation_expires_at": "",
			},
		},
	); err != nil {
		return true, err
	}

	var hostel models.Hostel
	if err := db.HostelsCollection.FindOne(ctx, bson.M{"hostelid": hostelID}).Decode(&hostel); err == nil {
		if err := rdx.RdxDel(rdx.KeyHostelsByLevel(hostel.Level)); err != nil {
			log.Printf("[sweeper] cache invalidation failed: %v", err)
		}
	}

	notify.Emit(ctx, notify.Event{
		Type:      notify.ReservationExpired,
		StudentID: student.StudentID,
		HostelID:  hostelID,
		RoomID:    roomID,
	})
	live.Feed.BroadcastEvent(live.Event{
		Action:    live.ActionReleased,
		HostelID:  hostelID,
		StudentID: student.StudentID,
	})
	return true, nil
}
