package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/riceschool/storefront/internal/order/domain"
	"github.com/riceschool/storefront/pkg/apperr"
)

// State of the submission machine. Exactly one submission may be in flight;
// terminal states return to idle on explicit acknowledgement or retry.
type State string

const (
	StateIdle          State = "idle"
	StateSubmitting    State = "submitting"
	StateSucceeded     State = State(domain.OutcomeSucceeded)
	StateFailed        State = State(domain.OutcomeFailed)
	StateIndeterminate State = State(domain.OutcomeIndeterminate)
)

// ErrSubmissionInFlight is returned when Submit is called while an earlier
// submission has not resolved yet. The caller issues no request in that case.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

const indeterminateMessage = "the order may or may not have been received; " +
	"confirm with the shop before retrying"

// Submitter serializes order submission and interprets the backend's answer
// into a definite outcome. It never assumes success on an unreadable
// response and never assumes failure either: that case is surfaced as
// indeterminate and the cart is left untouched.
type Submitter struct {
	poster Poster
	log    *slog.Logger

	mu     sync.Mutex
	state  State
	result domain.Result

	onOutcome func(domain.Result)
}

func NewSubmitter(poster Poster, log *slog.Logger) *Submitter {
	return &Submitter{
		poster: poster,
		log:    log,
		state:  StateIdle,
	}
}

// OnOutcome registers the hook invoked on every terminal transition.
// Register during wiring.
func (s *Submitter) OnOutcome(fn func(domain.Result)) {
	s.onOutcome = fn
}

func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the outcome of the last resolved attempt, if any.
func (s *Submitter) Result() (domain.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle || s.state == StateSubmitting {
		return domain.Result{}, false
	}
	return s.result, true
}

// Submit sends an already validated order. Re-entry while submitting is
// rejected before any request is issued. Submitting from a terminal state is
// a retry and implicitly acknowledges the previous outcome.
func (s *Submitter) Submit(ctx context.Context, order domain.Order) (domain.Result, error) {
	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return domain.Result{}, ErrSubmissionInFlight
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	orderID, err := s.poster.Post(ctx, order)
	res := s.interpret(orderID, err)

	s.mu.Lock()
	s.state = State(res.Outcome)
	s.result = res
	s.mu.Unlock()

	s.log.Info("submission resolved",
		slog.String("outcome", string(res.Outcome)),
		slog.String("orderId", res.OrderID))

	if s.onOutcome != nil {
		s.onOutcome(res)
	}
	return res, nil
}

// Acknowledge returns a terminal state to idle. No-op while idle or
// submitting.
func (s *Submitter) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateSucceeded, StateFailed, StateIndeterminate:
		s.state = StateIdle
	}
}

func (s *Submitter) interpret(orderID string, err error) domain.Result {
	if err == nil {
		if orderID == "" {
			// The backend confirmed but assigned no id we could read.
			orderID = "local-" + uuid.NewString()[:8]
		}
		return domain.Result{Outcome: domain.OutcomeSucceeded, OrderID: orderID}
	}

	var srvErr *apperr.ServerError
	if errors.As(err, &srvErr) {
		return domain.Result{Outcome: domain.OutcomeFailed, Message: srvErr.Message}
	}

	s.log.Warn("submission outcome unreadable", slog.Any("err", err))
	return domain.Result{Outcome: domain.OutcomeIndeterminate, Message: indeterminateMessage}
}
