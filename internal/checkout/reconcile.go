// Package checkout turns the cart into a committed order, either as a new order
// or by merging the cart into an order placed earlier.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"menucart/internal/cart"
	"menucart/internal/kvstore"
	"menucart/internal/models"
	"menucart/internal/orderid"
	"menucart/internal/session"

	"github.com/shopspring/decimal"
)

// Mode selects between placing a new order and appending to an existing one.
type Mode int

const (
	ModeNew Mode = iota
	ModeAppend
)

func (m Mode) String() string {
	if m == ModeAppend {
		return "append"
	}
	return "new"
}

// ErrNoExistingOrder is returned for append requests without a target order.
var ErrNoExistingOrder = errors.New("append mode requires an existing order")

// SubmissionError means the backend did not accept the order. The cart and the
// existing order are left as they were.
type SubmissionError struct {
	Mode Mode
	Err  error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("failed to submit %s order: %v", e.Mode, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// Cart is the part of the cart store the reconciler reads and clears.
type Cart interface {
	Lines() []models.CartLine
	Totals() cart.Totals
	Clear(ctx context.Context) error
}

// Gateway commits orders to the backend.
type Gateway interface {
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	ReplaceOrder(ctx context.Context, order *models.Order) (*models.Order, error)
}

// Sessions issues the device session id.
type Sessions interface {
	GetOrCreate(ctx context.Context) (string, error)
}

// Recorder keeps the device's local copy of submitted orders.
type Recorder interface {
	Save(ctx context.Context, order *models.Order) error
}

// Request is a single checkout attempt.
type Request struct {
	Details       models.UserDetails
	Mode          Mode
	PaymentMethod models.PaymentMethod
	// Existing is the order resolved by lookup; required in ModeAppend.
	Existing *models.Order
}

// Reconciler commits the cart through the Gateway and does the local
// bookkeeping afterwards.
type Reconciler struct {
	cart     Cart
	gateway  Gateway
	sessions Sessions
	history  Recorder
	kv       kvstore.Store
	logger   *slog.Logger

	now func() time.Time
	rnd orderid.IntN
}

// NewReconciler wires a Reconciler. kv receives the last-order snapshot.
func NewReconciler(c Cart, gateway Gateway, sessions Sessions, history Recorder, kv kvstore.Store, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		cart:     c,
		gateway:  gateway,
		sessions: sessions,
		history:  history,
		kv:       kv,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source and random source used for new order ids.
func (r *Reconciler) WithClock(now func() time.Time, rnd orderid.IntN) *Reconciler {
	r.now = now
	r.rnd = rnd
	return r
}

// Merge folds additions into existing: matching ids have their quantity
// increased, the rest are appended. Neither input is modified.
func Merge(existing, additions []models.CartLine) []models.CartLine {
	merged := models.CopyLines(existing)
	for _, add := range additions {
		found := false
		for i := range merged {
			if merged[i].ID == add.ID {
				merged[i].Quantity += add.Quantity
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, models.CopyLines([]models.CartLine{add})...)
		}
	}
	return merged
}

// PreviewTotal is the display estimate for appending the current cart to
// existing. The committed total is always recomputed from the merged lines.
func (r *Reconciler) PreviewTotal(existing *models.Order) float64 {
	total := decimal.NewFromFloat(r.cart.Totals().TotalPrice)
	if existing != nil {
		total = total.Add(decimal.NewFromFloat(existing.Total))
	}
	return total.InexactFloat64()
}

// Submit validates the request, sends the order to the backend and, once the
// backend accepts it, records it locally and clears the cart.
func (r *Reconciler) Submit(ctx context.Context, req Request) (*models.Order, error) {
	switch {
	case req.Mode != ModeNew && req.Mode != ModeAppend:
		return nil, fmt.Errorf("unknown checkout mode %d", req.Mode)
	case req.Mode == ModeAppend && req.Existing == nil:
		return nil, ErrNoExistingOrder
	}
	details := req.Details
	if req.Mode == ModeAppend && details == (models.UserDetails{}) {
		details = req.Existing.UserDetails
	}
	if err := Validate(details); err != nil {
		return nil, err
	}

	lines := r.cart.Lines()
	if len(lines) == 0 && (req.Mode == ModeNew || len(req.Existing.Items) == 0) {
		return nil, &ValidationError{Fields: map[string]string{"cart": "Cart is empty"}}
	}

	var (
		order *models.Order
		err   error
	)
	switch req.Mode {
	case ModeNew:
		order, err = r.newOrder(ctx, details, req.PaymentMethod, lines)
		if err != nil {
			return nil, err
		}
		r.logger.Info("submitting order", "order_id", order.ID, "items", len(order.Items), "total", order.Total)
		order, err = r.commit(ctx, req.Mode, order, r.gateway.CreateOrder)
	case ModeAppend:
		order = r.appendOrder(req.Existing, lines)
		r.logger.Info("appending to order", "order_id", order.ID, "added", cart.Count(lines), "total", order.Total)
		order, err = r.commit(ctx, req.Mode, order, r.gateway.ReplaceOrder)
	}
	if err != nil {
		return nil, err
	}

	r.record(ctx, order)
	if err := r.cart.Clear(ctx); err != nil {
		r.logger.Error("order committed but cart could not be cleared", "order_id", order.ID, "error", err)
	}
	return order, nil
}

func (r *Reconciler) newOrder(ctx context.Context, details models.UserDetails, method models.PaymentMethod, lines []models.CartLine) (*models.Order, error) {
	method, err := models.ParsePaymentMethod(string(method))
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"paymentMethod": err.Error()}}
	}
	sessionID, err := r.sessions.GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	now := r.now()
	details.Name = strings.TrimSpace(details.Name)
	return &models.Order{
		ID:            orderid.New(now, r.rnd),
		SessionID:     sessionID,
		TableID:       session.TableID(sessionID),
		UserDetails:   details,
		Items:         models.CopyLines(lines),
		Status:        models.StatusPending,
		PaymentMethod: method,
		PaymentStatus: models.PaymentPending,
		Total:         cart.Total(lines),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (r *Reconciler) appendOrder(existing *models.Order, lines []models.CartLine) *models.Order {
	updated := existing.Clone()
	updated.Items = Merge(existing.Items, lines)
	updated.Total = cart.Total(updated.Items)
	updated.UpdatedAt = r.now()
	return updated
}

func (r *Reconciler) commit(ctx context.Context, mode Mode, order *models.Order, send func(context.Context, *models.Order) (*models.Order, error)) (*models.Order, error) {
	saved, err := send(ctx, order)
	if err != nil {
		r.logger.Warn("backend rejected order", "order_id", order.ID, "mode", mode.String(), "error", err)
		return nil, &SubmissionError{Mode: mode, Err: err}
	}
	if saved == nil || saved.ID == "" {
		return order, nil
	}
	return saved, nil
}

// record stores the committed order locally. Failures are logged only: the
// backend already holds the order.
func (r *Reconciler) record(ctx context.Context, order *models.Order) {
	if r.history != nil {
		if err := r.history.Save(ctx, order); err != nil {
			r.logger.Error("failed to record order history", "order_id", order.ID, "error", err)
		}
	}
	if r.kv != nil {
		if err := kvstore.SetJSON(ctx, r.kv, kvstore.KeyLastOrder, order); err != nil {
			r.logger.Error("failed to store last order", "order_id", order.ID, "error", err)
		}
	}
}

// LastOrder returns the snapshot of the most recent successful submission.
func LastOrder(ctx context.Context, kv kvstore.Store) (*models.Order, bool, error) {
	var order models.Order
	ok, err := kvstore.GetJSON(ctx, kv, kvstore.KeyLastOrder, &order)
	if err != nil || !ok {
		return nil, false, err
	}
	return &order, true, nil
}
