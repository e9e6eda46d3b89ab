package mailer

import (
	"fmt"
	"strings"
	"time"
)

// HTML bodies for every notification the system sends. Kept as plain
// builders so they stay trivially testable.

func PaymentConfirmation(firstName, code, reference string, amount float64, paidAt time.Time) string {
	return fmt.Sprintf(`<h2>Payment Successful</h2>
<p>Hi %s,</p>
<p>Your hostel accommodation payment has been received.</p>
<ul>
  <li><strong>Amount:</strong> ₦%.2f</li>
  <li><strong>Reference:</strong> %s</li>
  <li><strong>Date:</strong> %s</li>
</ul>
<p>Your check-in code is <strong>%s</strong>. Present it to your hostel porter when you arrive.</p>`,
		firstName, amount, reference, paidAt.Format("2 Jan 2006 15:04"), code)
}

func ReservationConfirmation(firstName, hostel, room, bunk string, expiresAt time.Time) string {
	return fmt.Sprintf(`<h2>Room Reservation Confirmed</h2>
<p>Hi %s,</p>
<p>Your bunk has been reserved:</p>
<ul>
  <li><strong>Hostel:</strong> %s</li>
  <li><strong>Room:</strong> %s</li>
  <li><strong>Bunk:</strong> %s</li>
</ul>
<p>The reservation holds until <strong>%s</strong>. Check in with your porter before then or the bunk is released.</p>`,
		firstName, hostel, room, bunk, expiresAt.Format("2 Jan 2006 15:04"))
}

func RoommateNotice(firstName, reservedByName, hostel, room string) string {
	return fmt.Sprintf(`<h2>Room Reserved for You</h2>
<p>Hi %s,</p>
<p>%s has named you as a roommate in room %s, %s.</p>
<p>Complete your own payment and reservation to secure a bunk in the room.</p>`,
		firstName, reservedByName, room, hostel)
}

func PorterWelcome(firstName, hostel string) string {
	return fmt.Sprintf(`<h2>Porter Account Approved</h2>
<p>Hi %s,</p>
<p>Your application has been approved. You are assigned to <strong>%s</strong>.</p>
<p>Log in with your email; you will be asked to change your password on first login.</p>`,
		firstName, hostel)
}

func PorterApplicationReceived(firstName string) string {
	return fmt.Sprintf(`<h2>Application Received</h2>
<p>Hi %s,</p>
<p>Your porter application has been received and is awaiting review. You will be notified once a decision is made.</p>`,
		firstName)
}

func AdminNewPorterApplication(applicantEmail string) string {
	return fmt.Sprintf(`<h2>New Porter Application</h2>
<p>A new porter application has been submitted.</p>
<p><strong>Email:</strong> %s</p>
<p>Review it from the admin dashboard.</p>`, applicantEmail)
}

func ReservationExpired(firstName, hostel, room string) string {
	return fmt.Sprintf(`<h2>Reservation Expired</h2>
<p>Hi %s,</p>
<p>Your hold on room %s in %s has expired and the bunk has been released. You may reserve another available bunk.</p>`,
		firstName, room, hostel)
}

func PasswordReset(resetURL string) string {
	return fmt.Sprintf(`<h2>Password Reset</h2>
<p>A password reset was requested for your account. The link below is valid for one hour.</p>
<p><a href="%s">%s</a></p>
<p>If you did not request this, ignore this email.</p>`, resetURL, resetURL)
}

// FullName joins name parts, skipping blanks.
func FullName(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
