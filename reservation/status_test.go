package reservation

import (
	"errors"
	"testing"
	"time"

	"stayhub/models"
)

func TestRoomStatusFor(t *testing.T) {
	cases := []struct {
		occupants, capacity int
		want                string
	}{
		{0, 4, models.RoomAvailable},
		{1, 4, models.RoomPartiallyOccupied},
		{3, 4, models.RoomPartiallyOccupied},
		{4, 4, models.RoomFull},
		{5, 4, models.RoomFull},
		{0, 0, models.RoomFull},
		{-1, 4, models.RoomAvailable},
	}
	for _, c := range cases {
		if got := RoomStatusFor(c.occupants, c.capacity); got != c.want {
			t.Errorf("RoomStatusFor(%d, %d) = %q, want %q", c.occupants, c.capacity, got, c.want)
		}
	}
}

func TestHoldExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	if HoldExpired(nil, now) {
		t.Error("nil deadline must never count as expired")
	}
	if !HoldExpired(&past, now) {
		t.Error("past deadline should be expired")
	}
	if HoldExpired(&future, now) {
		t.Error("future deadline should not be expired")
	}
}

func TestCheckStudentEligibility(t *testing.T) {
	base := models.Student{
		PaymentStatus:     models.PaymentPaid,
		ReservationStatus: models.ReservationNone,
	}

	if err := CheckStudentEligibility(base); err != nil {
		t.Fatalf("paid student with no reservation should pass, got %v", err)
	}

	unpaid := base
	unpaid.PaymentStatus = models.PaymentPending
	if err := CheckStudentEligibility(unpaid); !errors.Is(err, ErrPaymentRequired) {
		t.Errorf("unpaid student: got %v, want ErrPaymentRequired", err)
	}

	for _, status := range []string{
		models.ReservationTemporary,
		models.ReservationConfirmed,
		models.ReservationCheckedIn,
	} {
		holding := base
		holding.ReservationStatus = status
		if err := CheckStudentEligibility(holding); !errors.Is(err, ErrAlreadyReserved) {
			t.Errorf("status %q: got %v, want ErrAlreadyReserved", status, err)
		}
	}

	expired := base
	expired.ReservationStatus = models.ReservationExpired
	if err := CheckStudentEligibility(expired); err != nil {
		t.Errorf("expired reservation should allow a fresh reserve, got %v", err)
	}
}

func TestCheckPlacement(t *testing.T) {
	student := models.Student{Level: 200, Gender: models.GenderMale}
	bunk := models.Bunk{Status: models.BunkAvailable, IsActive: true}
	room := models.Room{Capacity: 4, CurrentOccupants: 1, Status: models.RoomPartiallyOccupied, IsActive: true}
	hostel := models.Hostel{Level: 200, GenderPolicy: models.GenderMale, IsActive: true}

	if err := CheckPlacement(student, bunk, room, hostel); err != nil {
		t.Fatalf("valid placement rejected: %v", err)
	}

	t.Run("reserved bunk", func(t *testing.T) {
		b := bunk
		b.Status = models.BunkReserved
		if err := CheckPlacement(student, b, room, hostel); !errors.Is(err, ErrBunkUnavailable) {
			t.Errorf("got %v, want ErrBunkUnavailable", err)
		}
	})

	t.Run("full room", func(t *testing.T) {
		r := room
		r.CurrentOccupants = 4
		if err := CheckPlacement(student, bunk, r, hostel); !errors.Is(err, ErrRoomFull) {
			t.Errorf("got %v, want ErrRoomFull", err)
		}
	})

	t.Run("maintenance room", func(t *testing.T) {
		r := room
		r.Status = models.RoomMaintenance
		if err := CheckPlacement(student, bunk, r, hostel); !errors.Is(err, ErrRoomInactive) {
			t.Errorf("got %v, want ErrRoomInactive", err)
		}
	})

	t.Run("wrong level", func(t *testing.T) {
		h := hostel
		h.Level = 300
		if err := CheckPlacement(student, bunk, room, h); !errors.Is(err, ErrLevelMismatch) {
			t.Errorf("got %v, want ErrLevelMismatch", err)
		}
	})

	t.Run("gender policy", func(t *testing.T) {
		h := hostel
		h.GenderPolicy = models.GenderFemale
		if err := CheckPlacement(student, bunk, room, h); !errors.Is(err, ErrGenderMismatch) {
			t.Errorf("got %v, want ErrGenderMismatch", err)
		}

		h.GenderPolicy = models.GenderMixed
		if err := CheckPlacement(student, bunk, room, h); err != nil {
			t.Errorf("mixed hostel should accept any gender, got %v", err)
		}
	})
}

func TestCheckInAllowed(t *testing.T) {
	student := models.Student{
		ReservationStatus: models.ReservationTemporary,
		PaymentCode:       "483920",
	}

	if err := CheckInAllowed(student, "483920"); err != nil {
		t.Fatalf("valid check-in rejected: %v", err)
	}
	if err := CheckInAllowed(student, "000000"); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("wrong code: got %v, want ErrInvalidCode", err)
	}
	if err := CheckInAllowed(student, ""); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("empty code: got %v, want ErrInvalidCode", err)
	}

	noHold := student
	noHold.ReservationStatus = models.ReservationNone
	if err := CheckInAllowed(noHold, "483920"); !errors.Is(err, ErrNotReserved) {
		t.Errorf("no reservation: got %v, want ErrNotReserved", err)
	}

	done := student
	done.ReservationStatus = models.ReservationCheckedIn
	if err := CheckInAllowed(done, "483920"); !errors.Is(err, ErrNotReserved) {
		t.Errorf("already checked in: got %v, want ErrNotReserved", err)
	}
}
