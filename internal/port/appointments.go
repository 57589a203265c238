package port

import "clinicbot/internal/domain"

// AppointmentStore keeps booked appointments for the lifetime of the process.
type AppointmentStore interface {
	Add(appt domain.Appointment) error

	List() ([]domain.Appointment, error)

	Count() int
}
