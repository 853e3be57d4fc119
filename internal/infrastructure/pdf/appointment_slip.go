package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// AppointmentSlip holds what is printed on a patient's appointment slip.
type AppointmentSlip struct {
	AppointmentID  string
	PatientName    string
	DoctorName     string
	Specialization string
	ScheduledAt    time.Time
	Status         string
	Notes          string
	IssuedAt       time.Time
}

// RenderAppointmentSlip renders the slip as an A4 PDF document.
func RenderAppointmentSlip(slip AppointmentSlip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, "Clinic Appointment Slip", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 7, "Issued "+slip.IssuedAt.Format("02 Jan 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	addDetail(pdf, "Appointment", slip.AppointmentID)
	addDetail(pdf, "Patient", slip.PatientName)
	addDetail(pdf, "Doctor", slip.DoctorName)
	addDetail(pdf, "Specialization", slip.Specialization)
	addDetail(pdf, "Date", slip.ScheduledAt.Format("Monday, 02 Jan 2006"))
	addDetail(pdf, "Time", slip.ScheduledAt.Format("15:04"))
	addDetail(pdf, "Status", slip.Status)

	if slip.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Notes", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, slip.Notes, "", "L", false)
	}

	pdf.SetY(pdf.GetY() + 12)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 10, "Please arrive 10 minutes before your appointment.", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render appointment slip: %w", err)
	}
	return buf.Bytes(), nil
}

func addDetail(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(45, 10, label, "1", 0, "", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 10, value, "1", 1, "", false, 0, "")
}
