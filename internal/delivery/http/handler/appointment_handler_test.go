package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medical-clinic-api/internal/delivery/dto"
	"medical-clinic-api/internal/service"
	"medical-clinic-api/internal/usecase"
	"medical-clinic-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ usecase.AppointmentUsecase = (*mockAppointmentUsecase)(nil)

type mockAppointmentUsecase struct {
	BookFunc    func(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	ListAllFunc func(ctx context.Context, status string, doctorID, patientID *uuid.UUID, page, limit int) ([]dto.AppointmentResponse, int64, error)
	GetFunc     func(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	SlipFunc    func(ctx context.Context, id uuid.UUID) ([]byte, error)
}

func (m *mockAppointmentUsecase) Book(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if m.BookFunc != nil {
		return m.BookFunc(ctx, req)
	}
	return nil, errors.New("Book not implemented in mock")
}

func (m *mockAppointmentUsecase) ListForDoctor(ctx context.Context, status string, page, limit int) ([]dto.AppointmentResponse, int64, error) {
	return nil, 0, errors.New("ListForDoctor not implemented in mock")
}

func (m *mockAppointmentUsecase) ListForPatient(ctx context.Context, status string, page, limit int) ([]dto.AppointmentResponse, int64, error) {
	return nil, 0, errors.New("ListForPatient not implemented in mock")
}

func (m *mockAppointmentUsecase) ListAll(ctx context.Context, status string, doctorID, patientID *uuid.UUID, page, limit int) ([]dto.AppointmentResponse, int64, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx, status, doctorID, patientID, page, limit)
	}
	return nil, 0, errors.New("ListAll not implemented in mock")
}

func (m *mockAppointmentUsecase) Get(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, errors.New("Get not implemented in mock")
}

func (m *mockAppointmentUsecase) UpdateByDoctor(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	return nil, errors.New("UpdateByDoctor not implemented in mock")
}

func (m *mockAppointmentUsecase) Reschedule(ctx context.Context, id uuid.UUID, req *dto.RescheduleAppointmentRequest) (*dto.AppointmentResponse, error) {
	return nil, errors.New("Reschedule not implemented in mock")
}

func (m *mockAppointmentUsecase) AdminUpdate(ctx context.Context, id uuid.UUID, req *dto.AdminUpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return nil, errors.New("AdminUpdate not implemented in mock")
}

func (m *mockAppointmentUsecase) Cancel(ctx context.Context, id uuid.UUID) error {
	return errors.New("Cancel not implemented in mock")
}

func (m *mockAppointmentUsecase) Slip(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if m.SlipFunc != nil {
		return m.SlipFunc(ctx, id)
	}
	return nil, errors.New("Slip not implemented in mock")
}

func newAppointmentRouter(uc usecase.AppointmentUsecase) *mux.Router {
	h := NewAppointmentHandler(uc, validator.NewValidator())
	router := mux.NewRouter()
	router.HandleFunc("/appointments", h.Book).Methods(http.MethodPost)
	router.HandleFunc("/appointments", h.ListAll).Methods(http.MethodGet)
	router.HandleFunc("/appointments/{id}", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/appointments/{id}/slip", h.Slip).Methods(http.MethodGet)
	return router
}

func TestAppointmentHandler_Book(t *testing.T) {
	doctorID := uuid.New()
	body := `{"doctor_id":"` + doctorID.String() + `","scheduled_at":"2030-01-07T09:00:00Z"}`

	t.Run("created", func(t *testing.T) {
		uc := &mockAppointmentUsecase{
			BookFunc: func(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
				assert.Equal(t, doctorID, req.DoctorID)
				return &dto.AppointmentResponse{ID: uuid.New(), Status: "pending"}, nil
			},
		}

		rec := httptest.NewRecorder()
		newAppointmentRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, decodeResponse(t, rec).Success)
	})

	t.Run("slot taken", func(t *testing.T) {
		uc := &mockAppointmentUsecase{
			BookFunc: func(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
				return nil, service.ErrSlotTaken
			},
		}

		rec := httptest.NewRecorder()
		newAppointmentRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body)))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newAppointmentRouter(&mockAppointmentUsecase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader("{")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request body", decodeResponse(t, rec).Message)
	})

	t.Run("missing doctor", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newAppointmentRouter(&mockAppointmentUsecase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(`{"scheduled_at":"2030-01-07T09:00:00Z"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Validation failed", decodeResponse(t, rec).Message)
	})
}

func TestAppointmentHandler_ListAll(t *testing.T) {
	t.Run("passes filters and returns meta", func(t *testing.T) {
		doctorID := uuid.New()
		uc := &mockAppointmentUsecase{
			ListAllFunc: func(ctx context.Context, status string, gotDoctor, gotPatient *uuid.UUID, page, limit int) ([]dto.AppointmentResponse, int64, error) {
				assert.Equal(t, "approved", status)
				require.NotNil(t, gotDoctor)
				assert.Equal(t, doctorID, *gotDoctor)
				assert.Nil(t, gotPatient)
				assert.Equal(t, 2, page)
				assert.Equal(t, 5, limit)
				return []dto.AppointmentResponse{{ID: uuid.New()}}, 11, nil
			},
		}

		rec := httptest.NewRecorder()
		url := "/appointments?status=approved&doctor_id=" + doctorID.String() + "&page=2&limit=5"
		newAppointmentRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeResponse(t, rec)
		require.NotNil(t, body.Meta)
		assert.Equal(t, int64(11), body.Meta.Total)
		assert.Equal(t, 3, body.Meta.TotalPages)
	})

	t.Run("bad doctor filter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newAppointmentRouter(&mockAppointmentUsecase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments?doctor_id=42", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAppointmentHandler_Get(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		newAppointmentRouter(&mockAppointmentUsecase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid appointment ID", decodeResponse(t, rec).Message)
	})

	t.Run("not owned", func(t *testing.T) {
		uc := &mockAppointmentUsecase{
			GetFunc: func(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
				return nil, usecase.ErrAppointmentNotOwned
			},
		}

		rec := httptest.NewRecorder()
		newAppointmentRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/"+uuid.NewString(), nil))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAppointmentHandler_Slip(t *testing.T) {
	t.Run("streams pdf", func(t *testing.T) {
		id := uuid.New()
		pdf := []byte("%PDF-1.3 slip")
		uc := &mockAppointmentUsecase{
			SlipFunc: func(ctx context.Context, got uuid.UUID) ([]byte, error) {
				assert.Equal(t, id, got)
				return pdf, nil
			},
		}

		rec := httptest.NewRecorder()
		newAppointmentRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/"+id.String()+"/slip", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "appointment-"+id.String()+".pdf")
		assert.Equal(t, pdf, rec.Body.Bytes())
	})

	t.Run("pending appointment", func(t *testing.T) {
		uc := &mockAppointmentUsecase{
			SlipFunc: func(ctx context.Context, id uuid.UUID) ([]byte, error) {
				return nil, usecase.ErrSlipNotAvailable
			},
		}

		rec := httptest.NewRecorder()
		newAppointmentRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/appointments/"+uuid.NewString()+"/slip", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})
}
