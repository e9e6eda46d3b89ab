package pay

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"stayhub/db"
	"stayhub/mailer"
	"stayhub/models"
	"stayhub/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// Receipt renders a PDF receipt for a settled payment. The QR code carries
// the check-in code so porters can scan instead of typing.
func Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	studentID := utils.GetUserIDFromRequest(r)
	if studentID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	reference := ps.ByName("reference")

	var payment models.Payment
	if err := db.PaymentsCollection.FindOne(ctx, bson.M{"reference": reference, "studentid": studentID}).Decode(&payment); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Payment not found")
		return
	}
	if payment.Status != models.TxnSuccessful {
		utils.RespondWithError(w, http.StatusConflict, "Receipt is only available for successful payments")
		return
	}

	var student models.Student
	if err := db.StudentsCollection.FindOne(ctx, bson.M{"studentid": studentID}).Decode(&student); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Student not found")
		return
	}

	pdfBytes, err := buildReceiptPDF(student, payment)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to render receipt")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", payment.Reference))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}

func buildReceiptPDF(student models.Student, payment models.Payment) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("StayHub Payment Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "StayHub", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, "Hostel Accommodation Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	paidAt := payment.CreatedAt
	if payment.DatePaid != nil {
		paidAt = *payment.DatePaid
	}

	rows := [][2]string{
		{"Student", mailer.FullName(student.FirstName, student.LastName)},
		{"Matric No", student.MatricNo},
		{"Reference", payment.Reference},
		{"Amount", fmt.Sprintf("NGN %.2f", payment.Amount)},
		{"Date Paid", paidAt.Format("2 Jan 2006 15:04")},
		{"Semester", payment.Semester},
		{"Academic Year", payment.AcademicYear},
		{"Check-in Code", payment.Code},
	}
	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(45, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	png, err := qrcode.Encode(payment.Code, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("checkin-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("checkin-qr", 80, pdf.GetY(), 50, 50, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + 54)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, "Present this code to your hostel porter at check-in.", "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Generated "+time.Now().Format("2 Jan 2006 15:04"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
