package memstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"clinicbot/internal/domain"
)

// AppointmentStore keeps appointments in memory for the life of the process.
// There is no uniqueness or conflict check; every Add appends.
type AppointmentStore struct {
	mu           sync.RWMutex
	appointments []domain.Appointment
	now          func() time.Time
}

func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{now: time.Now}
}

func (s *AppointmentStore) Add(appt domain.Appointment) error {
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	if appt.BookedAt.IsZero() {
		appt.BookedAt = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = append(s.appointments, appt)
	return nil
}

// List returns a copy of all appointments in booking order.
func (s *AppointmentStore) List() ([]domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Appointment, len(s.appointments))
	copy(out, s.appointments)
	return out, nil
}

func (s *AppointmentStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.appointments)
}
