package reservation

import (
	"errors"
	"time"

	"stayhub/config"
	"stayhub/models"
)

// Sentinel errors for reservation preconditions. Handlers map these onto
// HTTP status codes; everything else is a 500.
var (
	ErrPaymentRequired = errors.New("payment required before reserving")
	ErrAlreadyReserved = errors.New("student already holds a reservation")
	ErrBunkUnavailable = errors.New("bunk is not available")
	ErrRoomFull        = errors.New("room is at capacity")
	ErrRoomInactive    = errors.New("room is not open for reservation")
	ErrLevelMismatch   = errors.New("hostel is not open to this level")
	ErrGenderMismatch  = errors.New("hostel gender policy does not permit this student")
	ErrInvalidCode     = errors.New("payment code does not match")
	ErrNotReserved     = errors.New("student has no active reservation")
)

// RoomStatusFor derives room status from occupancy. Maintenance is the one
// status not derivable from the counter and is preserved by callers.
func RoomStatusFor(occupants, capacity int) string {
	switch {
	case capacity <= 0 || occupants >= capacity:
		return models.RoomFull
	case occupants <= 0:
		return models.RoomAvailable
	default:
		return models.RoomPartiallyOccupied
	}
}

// HoldDeadline returns when a reservation made now stops holding the bunk.
func HoldDeadline(now time.Time) time.Time {
	return now.Add(time.Duration(config.Cfg.ReservationExpiryHours) * time.Hour)
}

// HoldExpired reports whether a reserved-until timestamp has passed.
func HoldExpired(reservedUntil *time.Time, now time.Time) bool {
	return reservedUntil != nil && now.After(*reservedUntil)
}

// CheckStudentEligibility enforces the student-side preconditions for
// reserving a bunk.
func CheckStudentEligibility(student models.Student) error {
	if student.PaymentStatus != models.PaymentPaid {
		return ErrPaymentRequired
	}
	switch student.ReservationStatus {
	case models.ReservationTemporary, models.ReservationConfirmed, models.ReservationCheckedIn:
		return ErrAlreadyReserved
	}
	return nil
}

// CheckPlacement enforces the bunk/room/hostel-side preconditions. These
// checks gate entry only; the conditional updates in Reserve are what make
// the workflow race-safe.
func CheckPlacement(student models.Student, bunk models.Bunk, room models.Room, hostel models.Hostel) error {
	if bunk.Status != models.BunkAvailable || !bunk.IsActive {
		return ErrBunkUnavailable
	}
	if !room.IsActive || room.Status == models.RoomMaintenance || !hostel.IsActive {
		return ErrRoomInactive
	}
	if room.CurrentOccupants >= room.Capacity {
		return ErrRoomFull
	}
	if hostel.Level != student.Level {
		return ErrLevelMismatch
	}
	if hostel.GenderPolicy != models.GenderMixed && student.Gender != "" && hostel.GenderPolicy != student.Gender {
		return ErrGenderMismatch
	}
	return nil
}

// CheckInAllowed enforces the porter-side preconditions for converting a
// reservation into occupancy.
func CheckInAllowed(student models.Student, code string) error {
	switch student.ReservationStatus {
	case models.ReservationTemporary, models.ReservationConfirmed:
	default:
		return ErrNotReserved
	}
	if code == "" || student.PaymentCode != code {
		return ErrInvalidCode
	}
	return nil
}
