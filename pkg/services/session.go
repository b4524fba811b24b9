package services

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"hotel-receipt/pkg/models"
)

var (
	ErrUnknownField   = errors.New("unknown form field")
	ErrSubmitInFlight = errors.New("submission already in progress")
)

// Session is the live state of one receipt form: the values typed so far,
// the errors of the last submit attempt and whether the submit control is
// currently shown.
type Session struct {
	mu            sync.Mutex
	form          models.ReceiptForm
	errors        models.ErrorMap
	submitVisible bool

	inFlight atomic.Bool
}

// NewSession starts an empty form with the submit control visible
func NewSession() *Session {
	return &Session{
		errors:        models.ErrorMap{},
		submitVisible: true,
	}
}

// Set stores a raw input value and clears any error shown for that field
func (s *Session) Set(field models.Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.form.SetValue(field, value) {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	delete(s.errors, field)
	return nil
}

// Fill sets every field of form, one at a time, as if typed by the user
func (s *Session) Fill(form models.ReceiptForm) {
	for _, f := range models.Fields {
		// Fields only holds known ids
		_ = s.Set(f, form.Value(f))
	}
}

// Form returns a snapshot of the current values
func (s *Session) Form() models.ReceiptForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Errors returns a copy of the current error map
func (s *Session) Errors() models.ErrorMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors.Clone()
}

// SubmitVisible reports whether the submit control is shown
func (s *Session) SubmitVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitVisible
}

// validate runs the field rules against the current values and replaces the
// error map with the result.
func (s *Session) validate() models.ErrorMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = Validate(s.form)
	return s.errors.Clone()
}

// hideSubmit hides the submit control and returns the function that shows it
// again.
func (s *Session) hideSubmit() (restore func()) {
	s.mu.Lock()
	s.submitVisible = false
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.submitVisible = true
		s.mu.Unlock()
	}
}

// begin marks a submission as running. It fails if one is already running.
func (s *Session) begin() (done func(), err error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	return func() { s.inFlight.Store(false) }, nil
}
