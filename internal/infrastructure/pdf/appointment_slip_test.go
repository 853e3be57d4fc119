package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAppointmentSlip(t *testing.T) {
	doc, err := RenderAppointmentSlip(AppointmentSlip{
		AppointmentID:  "7f1c",
		PatientName:    "Jane Doe",
		DoctorName:     "Gregory House",
		Specialization: "Diagnostics",
		ScheduledAt:    time.Date(2030, 1, 7, 9, 30, 0, 0, time.UTC),
		Status:         "approved",
		Notes:          "Bring previous lab results.",
		IssuedAt:       time.Date(2030, 1, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
	assert.Greater(t, len(doc), 500)
}
