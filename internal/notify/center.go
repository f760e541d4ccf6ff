// Package notify holds the ephemeral UI-facing notification state: a single
// latest-wins toast and the blocking order-success modal. Dismissing the
// modal is the one place the cart and checkout form are reset, and both are
// reset together.
package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ToastTTL is how long a toast stays visible before it expires.
const ToastTTL = 3 * time.Second

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Toast struct {
	ID      string `json:"id"`
	Level   Level  `json:"level"`
	Message string `json:"message"`

	expiresAt time.Time
}

type Center struct {
	log *slog.Logger
	now func() time.Time

	mu        sync.Mutex
	toast     *Toast
	modalOpen bool
	modalID   string

	onDismiss []func()
}

func NewCenter(log *slog.Logger) *Center {
	return &Center{
		log: log,
		now: time.Now,
	}
}

// OnSuccessDismiss registers a hook run when the success modal is closed.
// Hooks run together under the dismissal, so a cart clear and a form reset
// registered here can never be observed one without the other. Register
// during wiring.
func (c *Center) OnSuccessDismiss(fn func()) {
	c.onDismiss = append(c.onDismiss, fn)
}

// Toast replaces the current toast; there is no queue, latest wins.
func (c *Center) Toast(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toast = &Toast{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		expiresAt: c.now().Add(ToastTTL),
	}
	c.log.Debug("toast", slog.String("level", string(level)), slog.String("message", message))
}

// CurrentToast returns the visible toast, if its window has not elapsed.
func (c *Center) CurrentToast() (Toast, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.toast == nil {
		return Toast{}, false
	}
	if !c.now().Before(c.toast.expiresAt) {
		c.toast = nil
		return Toast{}, false
	}
	return *c.toast, true
}

// ShowSuccess opens the blocking confirmation modal for a placed order.
func (c *Center) ShowSuccess(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.modalOpen = true
	c.modalID = orderID
}

// SuccessModal reports the modal state and the confirmed order id.
func (c *Center) SuccessModal() (orderID string, open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modalID, c.modalOpen
}

// ModalOpen reports whether cart and checkout interaction is blocked.
func (c *Center) ModalOpen() bool {
	_, open := c.SuccessModal()
	return open
}

// DismissSuccess closes the modal and runs the registered reset hooks once.
// Dismissing an already closed modal is a no-op, so the hooks fire exactly
// once per shown modal.
func (c *Center) DismissSuccess() {
	c.mu.Lock()
	if !c.modalOpen {
		c.mu.Unlock()
		return
	}
	c.modalOpen = false
	c.modalID = ""
	hooks := c.onDismiss
	c.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}
