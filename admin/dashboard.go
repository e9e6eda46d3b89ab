package admin

import (
	"net/http"

	"stayhub/db"
	"stayhub/models"
	"stayhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Dashboard summarizes the whole system for the admin landing page.
func Dashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()

	students, _ := db.StudentsCollection.CountDocuments(ctx, bson.M{"is_active": true})
	paid, _ := db.StudentsCollection.CountDocuments(ctx, bson.M{"is_active": true, "payment_status": models.PaymentPaid})
	reserved, _ := db.StudentsCollection.CountDocuments(ctx, bson.M{
		"is_active":          true,
		"reservation_status": bson.M{"$in": bson.A{models.ReservationTemporary, models.ReservationConfirmed}},
	})
	checkedIn, _ := db.StudentsCollection.CountDocuments(ctx, bson.M{"is_active": true, "reservation_status": models.ReservationCheckedIn})
	hostels, _ := db.HostelsCollection.CountDocuments(ctx, bson.M{"is_active": true})
	rooms, _ := db.RoomsCollection.CountDocuments(ctx, bson.M{"is_active": true})
	bunksTotal, _ := db.BunksCollection.CountDocuments(ctx, bson.M{"is_active": true})
	bunksFree, _ := db.BunksCollection.CountDocuments(ctx, bson.M{"is_active": true, "status": models.BunkAvailable})
	pendingPorters, _ := db.PortersCollection.CountDocuments(ctx, bson.M{"is_active": true, "status": models.PorterPending})

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"students":        students,
		"students_paid":   paid,
		"reservations":    reserved,
		"checked_in":      checkedIn,
		"hostels":         hostels,
		"rooms":           rooms,
		"bunks":           bunksTotal,
		"bunks_available": bunksFree,
		"pending_porters": pendingPorters,
	})
}

type searchScope struct {
	name       string
	collection *mongo.Collection
	fields     []string
}

// Search runs one case-insensitive regex across every entity type and
// returns grouped matches.
func Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	q := utils.ParseQueryOptions(r)
	if q.Search == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "A search term is required")
		return
	}

	scopes := []searchScope{
		{"students", db.StudentsCollection, []string{"first_name", "last_name", "matric_no", "email"}},
		{"porters", db.PortersCollection, []string{"first_name", "last_name", "email"}},
		{"hostels", db.HostelsCollection, []string{"name", "description"}},
		{"rooms", db.RoomsCollection, []string{"room_number"}},
		{"colleges", db.CollegesCollection, []string{"name", "code"}},
		{"departments", db.DepartmentsCollection, []string{"name", "code"}},
	}

	results := utils.M{}
	for _, scope := range scopes {
		or := bson.A{}
		for _, field := range scope.fields {
			or = append(or, bson.M{field: bson.M{"$regex": q.Search, "$options": "i"}})
		}
		filter := bson.M{"is_active": true, "$or": or}

		cur, err := scope.collection.Find(ctx, filter, options.Find().SetLimit(10))
		if err != nil {
			continue
		}
		var matches []bson.M
		if err := cur.All(ctx, &matches); err != nil {
			cur.Close(ctx)
			continue
		}
		cur.Close(ctx)
		if len(matches) > 0 {
			for _, m := range matches {
				delete(m, "password_hash")
			}
			results[scope.name] = matches
		}
	}
	utils.RespondWithData(w, http.StatusOK, results)
}
