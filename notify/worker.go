package notify

import (
	"context"
	"encoding/json"
	"log"

	"stayhub/db"
	"stayhub/mailer"
	"stayhub/models"
	"stayhub/rdx"

	"go.mongodb.org/mongo-driver/bson"
)

// StartWorker subscribes to the notification channel and turns events into
// email. Run it in its own goroutine from main.
func StartWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, eventsChannel)
	ch := sub.Channel()

	log.Println("[notify] worker listening for events")

	for msg := range ch {
		var event Event
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[notify] bad event payload: %v", err)
			continue
		}
		if err := dispatch(ctx, event); err != nil {
			log.Printf("[notify] dispatch %s failed: %v", event.Type, err)
		}
	}
}

func dispatch(ctx context.Context, event Event) error {
	switch event.Type {
	case PaymentSuccessful:
		return sendPaymentSuccess(ctx, event)
	case ReservationConfirmed:
		return sendReservationConfirmed(ctx, event)
	case RoommateReserved:
		return sendRoommateReserved(ctx, event)
	case PorterApplication:
		return sendAdminPorterApplication(ctx, event)
	case PorterApproved:
		return sendPorterApproved(ctx, event)
	case ReservationExpired:
		return sendReservationExpired(ctx, event)
	default:
		log.Printf("[notify] unknown event type %q", event.Type)
		return nil
	}
}

func sendPaymentSuccess(ctx context.Context, event Event) error {
	var student models.Student
	if err := db.StudentsCollection.FindOne(ctx, bson.M{"studentid": event.StudentID}).Decode(&student); err != nil {
		return err
	}
	var payment models.Payment
	if err := db.PaymentsCollection.FindOne(ctx, bson.M{"paymentid": event.PaymentID}).Decode(&payment); err != nil {
		return err
	}
	paidAt := payment.CreatedAt
	if payment.DatePaid != nil {
		paidAt = *payment.DatePaid
	}
	html := mailer.PaymentConfirmation(student.FirstName, payment.Code, payment.Reference, payment.Amount, paidAt)
	return mailer.Send(student.Email, "Payment Successful - StayHub", html)
}

func sendReservationConfirmed(ctx context.Context, event Event) error {
	student, room, hostel, err := loadReservationParties(ctx, event)
	if err != nil {
		return err
	}
	var bunk models.Bunk
	if err := db.BunksCollection.FindOne(ctx, bson.M{"bunkid": event.BunkID}).Decode(&bunk); err != nil {
		return err
	}
	if bunk.ReservedUntil == nil {
		log.Printf("[notify] reservation event for bunk %s without expiry", event.BunkID)
		return nil
	}
	html := mailer.ReservationConfirmation(student.FirstName, hostel.Name, room.RoomNumber, bunk.BunkNumber, *bunk.ReservedUntil)
	return mailer.Send(student.Email, "Room Reservation Confirmed - StayHub", html)
}

func sendRoommateReserved(ctx context.Context, event Event) error {
	student, room, hostel, err := loadReservationParties(ctx, event)
	if err != nil {
		return err
	}
	var reservedBy models.Student
	if err := db.StudentsCollection.FindOne(ctx, bson.M{"studentid": event.ReservedBy}).Decode(&reservedBy); err != nil {
		return err
	}
	name := mailer.FullName(reservedBy.FirstName, reservedBy.LastName)
	html := mailer.RoommateNotice(student.FirstName, name, hostel.Name, room.RoomNumber)
	return mailer.Send(student.Email, "Room Reserved for You - StayHub", html)
}

func sendAdminPorterApplication(ctx context.Context, event Event) error {
	cur, err := db.AdminsCollection.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	var admins []models.Admin
	if err := cur.All(ctx, &admins); err != nil {
		return err
	}
	recipients := make([]string, 0, len(admins))
	for _, a := range admins {
		recipients = append(recipients, a.Email)
	}
	mailer.SendBulk(recipients, "New Porter Application - StayHub", mailer.AdminNewPorterApplication(event.Email))
	return nil
}

func sendPorterApproved(ctx context.Context, event Event) error {
	var porter models.Porter
	if err := db.PortersCollection.FindOne(ctx, bson.M{"porterid": event.PorterID}).Decode(&porter); err != nil {
		return err
	}
	var hostel models.Hostel
	if err := db.HostelsCollection.FindOne(ctx, bson.M{"hostelid": porter.AssignedHostel}).Decode(&hostel); err != nil {
		return err
	}
	html := mailer.PorterWelcome(porter.FirstName, hostel.Name)
	return mailer.Send(porter.Email, "Welcome to StayHub - Porter Account Approved", html)
}

func sendReservationExpired(ctx context.Context, event Event) error {
	student, room, hostel, err := loadReservationParties(ctx, event)
	if err != nil {
		return err
	}
	html := mailer.ReservationExpired(student.FirstName, hostel.Name, room.RoomNumber)
	return mailer.Send(student.Email, "Reservation Expired - StayHub", html)
}

func loadReservationParties(ctx context.Context, event Event) (models.Student, models.Room, models.Hostel, error) {
	var student models.Student
	var room models.Room
	var hostel models.Hostel

	if err := db.StudentsCollection.FindOne(ctx, bson.M{"studentid": event.StudentID}).Decode(&student); err != nil {
		return student, room, hostel, err
	}
	if err := db.RoomsCollection.FindOne(ctx, bson.M{"roomid": event.RoomID}).Decode(&room); err != nil {
		return student, room, hostel, err
	}
	if err := db.HostelsCollection.FindOne(ctx, bson.M{"hostelid": event.HostelID}).Decode(&hostel); err != nil {
		return student, room, hostel, err
	}
	return student, room, hostel, nil
}
