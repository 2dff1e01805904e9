package verification

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"marketplace/internal/api"
)

// Step is a stage of the verification submission wizard.
type Step int

const (
	StepIntro Step = iota
	StepForm
	StepSuccess
)

func (s Step) String() string {
	switch s {
	case StepIntro:
		return "intro"
	case StepForm:
		return "form"
	case StepSuccess:
		return "success"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// ErrWrongStep is returned when an action does not apply to the current step.
var ErrWrongStep = errors.New("action not available at this step")

// Submitter files verification requests.
type Submitter interface {
	SubmitVerification(ctx context.Context, req api.SubmitVerificationRequest) (api.CreatedResponse, error)
}

// Wizard walks a user through intro, form and success. A failed submission
// stays on the form; Reset returns to the intro.
type Wizard struct {
	submitter Submitter

	mu        sync.Mutex
	step      Step
	requestID uint
}

// NewWizard starts a wizard at the intro step.
func NewWizard(submitter Submitter) *Wizard {
	return &Wizard{submitter: submitter}
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// RequestID returns the id of the submitted request once on the success step.
func (w *Wizard) RequestID() uint {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.requestID
}

// Begin moves from the intro to the form.
func (w *Wizard) Begin() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepIntro {
		return fmt.Errorf("begin at %s: %w", w.step, ErrWrongStep)
	}
	w.step = StepForm
	return nil
}

// Submit sends the form and moves to success when the backend accepts it.
func (w *Wizard) Submit(ctx context.Context, form api.SubmitVerificationRequest) (api.CreatedResponse, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepForm {
		return api.CreatedResponse{}, fmt.Errorf("submit at %s: %w", w.step, ErrWrongStep)
	}
	resp, err := w.submitter.SubmitVerification(ctx, form)
	if err != nil {
		return api.CreatedResponse{}, err
	}
	w.step = StepSuccess
	w.requestID = resp.ID
	return resp, nil
}

// Reset returns to the intro and forgets the submission.
func (w *Wizard) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.step = StepIntro
	w.requestID = 0
}
