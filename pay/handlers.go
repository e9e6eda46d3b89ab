package pay

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"stayhub/config"
	"stayhub/db"
	"stayhub/models"
	"stayhub/notify"
	"stayhub/rdx"
	"stayhub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Gateway is the process-wide Paystack client. Tests swap it out.
var Gateway = NewPaystackClient()

const initLockTTL = 2 * time.Minute

// currentConfig returns the active fee, cache first.
func currentConfig(r *http.Request) (models.PaymentConfig, error) {
	var cfg models.PaymentConfig
	if cached, err := rdx.RdxGet(rdx.KeyPaymentAmount()); err == nil && cached != "" {
		if json.Unmarshal([]byte(cached), &cfg) == nil {
			return cfg, nil
		}
	}

	opts := options.FindOne().SetSort(bson.M{"updated_at": -1})
	if err := db.PaymentConfigCollection.FindOne(r.Context(), bson.M{}, opts).Decode(&cfg); err != nil {
		return cfg, err
	}
	if raw, err := json.Marshal(cfg); err == nil {
		_ = rdx.RdxSet(rdx.KeyPaymentAmount(), string(raw))
	}
	return cfg, nil
}

// InitializePayment starts a Paystack checkout for the hostel fee. A short
// redis lock stops double-click double-charges.
func InitializePayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	studentID := utils.GetUserIDFromRequest(r)
	if studentID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	locked, err := rdx.RdxSetNX(rdx.KeyPaymentInitLock(studentID), "1", initLockTTL)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to acquire payment lock")
		return
	}
	if !locked {
		utils.RespondWithError(w, http.StatusTooManyRequests, "A payment is already being initialized")
		return
	}
	defer func() {
		if err := rdx.RdxDel(rdx.KeyPaymentInitLock(studentID)); err != nil {
			log.Printf("pay: releasing init lock for %s failed: %v", studentID, err)
		}
	}()

	var student models.Student
	if err := db.StudentsCollection.FindOne(ctx, bson.M{"studentid": studentID, "is_active": true}).Decode(&student); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Student not found")
		return
	}
	if student.PaymentStatus == models.PaymentPaid {
		utils.RespondWithError(w, http.StatusConflict, "Accommodation fee already paid")
		return
	}

	cfg, err := currentConfig(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Payment amount has not been configured")
		return
	}

	now := time.Now()
	payment := models.Payment{
		PaymentID:    utils.GetUUID(),
		StudentID:    studentID,
		Amount:       cfg.Amount,
		Reference:    utils.GenerateReference("PAY"),
		Code:         utils.GenerateRandomDigitString(config.Cfg.PaymentCodeLength),
		Status:       models.TxnPending,
		Method:       "paystack",
		Semester:     cfg.Semester,
		AcademicYear: cfg.AcademicYear,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := db.PaymentsCollection.InsertOne(ctx, payment); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to record payment")
		return
	}

	result, err := Gateway.InitializeTransaction(ctx, student.Email, payment.Amount, payment.Reference)
	if err != nil {
		log.Printf("pay: initialize for %s failed: %v", studentID, err)
		_, _ = db.PaymentsCollection.UpdateOne(ctx,
			bson.M{"paymentid": payment.PaymentID},
			bson.M{"$set": bson.M{"status": models.TxnCancelled, "updated_at": time.Now()}},
		)
		utils.RespondWithError(w, http.StatusBadGateway, "Payment gateway is unavailable")
		return
	}

	utils.RespondWithData(w, http.StatusOK, utils.M{
		"authorization_url": result.AuthorizationURL,
		"access_code":       result.AccessCode,
		"reference":         payment.Reference,
		"amount":            payment.Amount,
	})
}

// VerifyPayment confirms a reference against Paystack and settles the
// student's record. Safe to call repeatedly: a settled payment is returned
// as-is.
func VerifyPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	reference := ps.ByName("reference")

	var payment models.Payment
	if err := db.PaymentsCollection.FindOne(ctx, bson.M{"reference": reference}).Decode(&payment); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Payment not found")
		return
	}
	if payment.Status == models.TxnSuccessful {
		utils.RespondWithData(w, http.StatusOK, payment)
		return
	}

	result, err := Gateway.VerifyTransaction(ctx, reference)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadGateway, "Verification failed")
		return
	}

	now := time.Now()
	if result.Status != "success" {
		_, _ = db.PaymentsCollection.UpdateOne(ctx,
			bson.M{"paymentid": payment.PaymentID, "status": models.TxnPending},
			bson.M{"$set": bson.M{"status": models.TxnFailed, "updated_at": now}},
		)
		_, _ = db.StudentsCollection.UpdateOne(ctx,
			bson.M{"studentid": payment.StudentID, "payment_status": bson.M{"$ne": models.PaymentPaid}},
			bson.M{"$set": bson.M{"payment_status": models.PaymentFailed, "updated_at": now}},
		)
		utils.RespondWithError(w, http.StatusPaymentRequired, "Payment was not successful")
		return
	}

	paidAt := now
	if t, err := time.Parse(time.RFC3339, result.PaidAt); err == nil {
		paidAt = t
	}
	meta := map[string]interface{}{
		"channel":  result.Channel,
		"currency": result.Currency,
		"amount":   result.Amount,
	}

	// Conditional update keeps a concurrent verify from settling twice.
	res, err := db.PaymentsCollection.UpdateOne(ctx,
		bson.M{"paymentid": payment.PaymentID, "status": models.TxnPending},
		bson.M{"$set": bson.M{
			"status":       models.TxnSuccessful,
			"date_paid":    paidAt,
			"gateway_meta": meta,
			"updated_at":   now,
		}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to settle payment")
		return
	}

	if res.ModifiedCount == 1 {
		if _, err := db.StudentsCollection.UpdateOne(ctx,
			bson.M{"studentid": payment.StudentID},
			bson.M{"$set": bson.M{
				"payment_status":    models.PaymentPaid,
				"payment_reference": payment.Reference,
				"payment_code":      payment.Code,
				"updated_at":        now,
			}},
		); err != nil {
			log.Printf("pay: settling student %s after verify failed: %v", payment.StudentID, err)
		}
		notify.Emit(ctx, notify.Event{
			Type:      notify.PaymentSuccessful,
			StudentID: payment.StudentID,
			PaymentID: payment.PaymentID,
		})
	}

	payment.Status = models.TxnSuccessful
	payment.DatePaid = &paidAt
	utils.RespondWithData(w, http.StatusOK, payment)
}

// PaymentStatus returns the authenticated student's latest payment record.
func PaymentStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	studentID := utils.GetUserIDFromRequest(r)
	if studentID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	opts := options.FindOne().SetSort(bson.M{"created_at": -1})
	var payment models.Payment
	err := db.PaymentsCollection.FindOne(ctx, bson.M{"studentid": studentID}, opts).Decode(&payment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithData(w, http.StatusOK, utils.M{"status": "none"})
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load payment")
		return
	}
	utils.RespondWithData(w, http.StatusOK, payment)
}

// GetAmount exposes the current accommodation fee.
func GetAmount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	cfg, err := currentConfig(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Payment amount has not been configured")
		return
	}
	utils.RespondWithData(w, http.StatusOK, cfg)
}

type setAmountRequest struct {
	Amount       float64 `json:"amount"`
	Description  string  `json:"description,omitempty"`
	Semester     string  `json:"semester,omitempty"`
	AcademicYear string  `json:"academic_year,omitempty"`
}

// SetAmount lets an admin update the fee. The cache entry is replaced, not
// just invalidated, so the next read cannot race a stale fill.
func SetAmount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	adminID := utils.GetUserIDFromRequest(r)

	var req setAmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "A positive amount is required")
		return
	}

	cfg := models.PaymentConfig{
		Amount:       req.Amount,
		Description:  req.Description,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		UpdatedBy:    adminID,
		UpdatedAt:    time.Now(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := db.PaymentConfigCollection.ReplaceOne(ctx, bson.M{}, cfg, opts); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save payment amount")
		return
	}
	if raw, err := json.Marshal(cfg); err == nil {
		if err := rdx.RdxSet(rdx.KeyPaymentAmount(), string(raw)); err != nil {
			log.Printf("pay: amount cache refresh failed: %v", err)
		}
	}
	utils.RespondWithData(w, http.StatusOK, cfg)
}

// ListPayments returns payment records for the admin dashboard.
func ListPayments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	q := utils.ParseQueryOptions(r)

	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64((q.Page - 1) * q.Limit)).
		SetLimit(int64(q.Limit))
	cur, err := db.PaymentsCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load payments")
		return
	}
	defer cur.Close(ctx)

	payments := []models.Payment{}
	if err := cur.All(ctx, &payments); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode payments")
		return
	}

	total, _ := db.PaymentsCollection.CountDocuments(ctx, filter)
	utils.RespondWithData(w, http.StatusOK, utils.M{
		"payments": payments,
		"total":    total,
		"page":     q.Page,
		"limit":    q.Limit,
	})
}

// PaymentStats aggregates counts and totals per status.
func PaymentStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
			"total": bson.M{"$sum": "$amount"},
		}}},
	}
	cur, err := db.PaymentsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to aggregate payments")
		return
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string  `bson:"_id"`
		Count  int64   `bson:"count"`
		Total  float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode stats")
		return
	}

	stats := utils.M{}
	for _, row := range rows {
		stats[row.Status] = utils.M{"count": row.Count, "total": row.Total}
	}
	utils.RespondWithData(w, http.StatusOK, stats)
}
