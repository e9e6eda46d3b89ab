package mailer

import (
	"strings"
	"testing"
	"time"
)

func TestPaymentConfirmationCarriesCodeAndReference(t *testing.T) {
	paidAt := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	html := PaymentConfirmation("Ada", "483920", "PAY-9F2C41D8A1B2", 45000, paidAt)

	for _, want := range []string{"Ada", "483920", "PAY-9F2C41D8A1B2", "45000.00", "10 Feb 2026"} {
		if !strings.Contains(html, want) {
			t.Errorf("payment confirmation missing %q", want)
		}
	}
}

func TestReservationConfirmationCarriesDeadline(t *testing.T) {
	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	html := ReservationConfirmation("Ada", "Queen Amina Hall", "A12", "B3", expires)

	for _, want := range []string{"Queen Amina Hall", "A12", "B3", "1 Mar 2026"} {
		if !strings.Contains(html, want) {
			t.Errorf("reservation confirmation missing %q", want)
		}
	}
}

func TestRoommateNoticeNamesReserver(t *testing.T) {
	html := RoommateNotice("Bola", "Ada Obi", "Queen Amina Hall", "A12")
	if !strings.Contains(html, "Ada Obi") || !strings.Contains(html, "A12") {
		t.Error("roommate notice missing reserver or room")
	}
}

func TestPasswordResetEmbedsLink(t *testing.T) {
	url := "http://localhost:3000/reset-password?token=abc"
	if !strings.Contains(PasswordReset(url), url) {
		t.Error("reset mail missing link")
	}
}

func TestFullName(t *testing.T) {
	cases := []struct {
		parts []string
		want  string
	}{
		{[]string{"Ada", "Obi"}, "Ada Obi"},
		{[]string{"Ada", ""}, "Ada"},
		{[]string{"", ""}, ""},
	}
	for _, c := range cases {
		if got := FullName(c.parts...); got != c.want {
			t.Errorf("FullName(%v) = %q, want %q", c.parts, got, c.want)
		}
	}
}
