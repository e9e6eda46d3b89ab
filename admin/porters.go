package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"stayhub/db"
	"stayhub/models"
	"stayhub/notify"
	"stayhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListPorters returns porter accounts, filterable by application status.
func ListPorters(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	q := utils.ParseQueryOptions(r)

	filter := bson.M{"is_active": true}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	cur, err := db.PortersCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"applied_at": -1}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load porters")
		return
	}
	defer cur.Close(ctx)

	porters := []models.Porter{}
	if err := cur.All(ctx, &porters); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode porters")
		return
	}
	utils.RespondWithData(w, http.StatusOK, porters)
}

type approvePorterRequest struct {
	HostelID string `json:"hostelid"`
}

// ApprovePorter accepts a pending application, assigns the hostel and adds
// the porter to its roster.
func ApprovePorter(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	adminID := utils.GetUserIDFromRequest(r)
	porterID := ps.ByName("porterId")

	var req approvePorterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.HostelID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "A hostel assignment is required")
		return
	}

	var hostel models.Hostel
	if err := db.HostelsCollection.FindOne(ctx, bson.M{"hostelid": req.HostelID, "is_active": true}).Decode(&hostel); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Hostel not found")
		return
	}

	now := time.Now()
	// Status filter makes a double approval a no-op race loser.
	res, err := db.PortersCollection.UpdateOne(ctx,
		bson.M{"porterid": porterID, "status": models.PorterPending, "is_active": true},
		bson.M{"$set": bson.M{
			"status":          models.PorterApproved,
			"approved":        true,
			"assigned_hostel": req.HostelID,
			"approved_at":     now,
			"approved_by":     adminID,
			"updated_at":      now,
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to approve porter")
		return
	}
	if res.ModifiedCount == 0 {
		utils.RespondWithError(w, http.StatusConflict, "Porter is not pending approval")
		return
	}

	if _, err := db.HostelsCollection.UpdateOne(ctx,
		bson.M{"hostelid": req.HostelID},
		bson.M{"$addToSet": bson.M{"porters": porterID}, "$set": bson.M{"updated_at": now}},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Porter approved but hostel roster update failed")
		return
	}

	notify.Emit(ctx, notify.Event{
		Type:     notify.PorterApproved,
		PorterID: porterID,
	})
	utils.RespondWithData(w, http.StatusOK, utils.M{
		"porterid": porterID,
		"hostel":   hostel.Name,
		"status":   models.PorterApproved,
	})
}

// RejectPorter turns down a pending application.
func RejectPorter(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	res, err := db.PortersCollection.UpdateOne(ctx,
		bson.M{"porterid": ps.ByName("porterId"), "status": models.PorterPending, "is_active": true},
		bson.M{"$set": bson.M{"status": models.PorterRejected, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reject porter")
		return
	}
	if res.ModifiedCount == 0 {
		utils.RespondWithError(w, http.StatusConflict, "Porter is not pending approval")
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"status": models.PorterRejected})
}

// SuspendPorter blocks an approved porter without deleting the record and
// pulls them off the hostel roster.
func SuspendPorter(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	porterID := ps.ByName("porterId")

	var porter models.Porter
	if err := db.PortersCollection.FindOne(ctx, bson.M{"porterid": porterID, "status": models.PorterApproved}).Decode(&porter); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Approved porter not found")
		return
	}

	now := time.Now()
	if _, err := db.PortersCollection.UpdateOne(ctx,
		bson.M{"porterid": porterID},
		bson.M{"$set": bson.M{"status": models.PorterSuspended, "updated_at": now}},
	); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to suspend porter")
		return
	}
	if porter.AssignedHostel != "" {
		if _, err := db.HostelsCollection.UpdateOne(ctx,
			bson.M{"hostelid": porter.AssignedHostel},
			bson.M{"$pull": bson.M{"porters": porterID}, "$set": bson.M{"updated_at": now}},
		); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Porter suspended but hostel roster update failed")
			return
		}
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{"status": models.PorterSuspended})
}
