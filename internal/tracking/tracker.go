package tracking

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/brightbite/campus-client/internal/api"
	"github.com/brightbite/campus-client/internal/models"
	"github.com/brightbite/campus-client/internal/realtime"
)

// OrdersAPI is the slice of the API client the tracker depends on
type OrdersAPI interface {
	CreateOrder(ctx context.Context, req api.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
	RateOrder(ctx context.Context, orderID string, rating int) error
}

// Settler performs the payment side effect after order creation
type Settler interface {
	Settle(ctx context.Context, order *models.Order, method models.PaymentMethod) error
}

// Channel is an open realtime connection owned by the tracker
type Channel interface {
	Close()
}

// Dialer opens realtime channels for the tracker
type Dialer interface {
	Dial(ctx context.Context, userID string, handler realtime.Handler) (Channel, error)
}

// NewRealtimeDialer adapts a realtime.Dialer to the tracker's Dialer
func NewRealtimeDialer(d *realtime.Dialer) Dialer {
	return realtimeDialer{d: d}
}

type realtimeDialer struct{ d *realtime.Dialer }

func (r realtimeDialer) Dial(ctx context.Context, userID string, handler realtime.Handler) (Channel, error) {
	ch, err := r.d.Dial(ctx, userID, handler)
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// Config tunes the tracker's background synchronization
type Config struct {
	PollInterval   time.Duration
	ReconnectDelay time.Duration
	// MaxRetries caps reconnect attempts per outage; 0 means unbounded
	MaxRetries int
}

func (c *Config) applyDefaults() {
	if c.PollInterval == 0 {
		c.PollInterval = 3 * time.Second
	}
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = 3 * time.Second
	}
}

// Snapshot is the tracker's externally visible state at one instant
type Snapshot struct {
	Order      *models.Order
	Status     models.OrderStatus
	ETAMinutes int
	Points     int
	Err        error
}

// ErrOrderActive is returned when a start is attempted while another order
// is still being tracked.
var ErrOrderActive = errors.New("an order is already being tracked")

// Tracker owns the canonical order/status/eta state for one tracking
// session. Status updates arrive from the realtime channel while it is up
// and from the polling fallback while it is down; the two never run at once.
// All background work stops on dismissal or on a terminal status.
type Tracker struct {
	cfg     Config
	orders  OrdersAPI
	settler Settler
	dialer  Dialer
	userID  string
	log     *slog.Logger

	mu sync.Mutex
	// gen increments on every start and dismissal; callbacks captured under
	// an older generation become no-ops
	gen      int
	starting bool
	order    *models.Order
	status   models.OrderStatus
	eta      int
	points   int
	lastErr  error

	channel    Channel
	downedConn *channelHandler
	pollCancel context.CancelFunc
	reconnect  *time.Timer
	retries    int

	onChange func(Snapshot)
}

// NewTracker creates a new order lifecycle tracker
func NewTracker(cfg Config, orders OrdersAPI, settler Settler, dialer Dialer, userID string, log *slog.Logger) *Tracker {
	cfg.applyDefaults()
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		cfg:     cfg,
		orders:  orders,
		settler: settler,
		dialer:  dialer,
		userID:  userID,
		log:     log,
	}
}

// OnChange registers a snapshot callback invoked after every state change.
// The callback runs outside the tracker's lock.
func (t *Tracker) OnChange(fn func(Snapshot)) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// Active reports whether an order is currently being tracked
func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.order != nil
}

// Snapshot returns the current state
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// snapshotLocked copies the order so consumers never alias state the
// tracker keeps mutating under its own lock.
func (t *Tracker) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status:     t.status,
		ETAMinutes: t.eta,
		Points:     t.points,
		Err:        t.lastErr,
	}
	if t.order != nil {
		o := *t.order
		snap.Order = &o
	}
	return snap
}

// StartOrder creates the order, settles payment, and begins tracking. On
// any failure the error is recorded, no channel is opened and no polling
// starts; a settlement failure leaves the order cancelled server-side.
func (t *Tracker) StartOrder(ctx context.Context, req api.CreateOrderRequest) error {
	t.mu.Lock()
	if t.order != nil || t.starting {
		t.mu.Unlock()
		return ErrOrderActive
	}
	t.starting = true
	t.mu.Unlock()

	order, err := t.orders.CreateOrder(ctx, req)
	if err != nil {
		t.startFailed(err)
		return err
	}

	if t.settler != nil {
		if err := t.settler.Settle(ctx, order, req.PaymentMethod); err != nil {
			t.startFailed(err)
			return err
		}
	}

	// Keep the user's checkout choices on the local order; the server
	// representation is not required to carry them
	order.ServiceType = req.ServiceType
	order.Payment = req.PaymentMethod

	t.mu.Lock()
	t.starting = false
	t.gen++
	gen := t.gen
	t.order = order
	t.status = models.OrderStatusPendingConfirmation
	if s, ok := models.ParseStatus(string(order.Status)); ok {
		t.status = s
	}
	t.eta = order.ETAMinutes
	t.points = 0
	t.lastErr = nil
	t.retries = 0
	notify := t.notifierLocked()
	t.mu.Unlock()
	notify()

	go t.connect(gen)
	return nil
}

// SetManualStatus overrides the status locally where no authoritative push
// exists yet. No-op without an active order.
func (t *Tracker) SetManualStatus(status models.OrderStatus) {
	t.mu.Lock()
	if t.order == nil {
		t.mu.Unlock()
		return
	}
	t.status = status
	notify := t.notifierLocked()
	t.mu.Unlock()
	notify()
}

// Dismiss ends the tracking session: polling stops, any scheduled reconnect
// is cancelled, the channel closes and all local state clears. In-flight
// polls and buffered frames that resolve afterwards are no-ops.
func (t *Tracker) Dismiss() {
	t.mu.Lock()
	t.gen++
	t.stopPollingLocked()
	t.cancelReconnectLocked()
	if t.channel != nil {
		t.channel.Close()
		t.channel = nil
	}
	t.order = nil
	t.status = ""
	t.eta = 0
	t.points = 0
	t.lastErr = nil
	t.retries = 0
	notify := t.notifierLocked()
	t.mu.Unlock()
	notify()
}

// startFailed releases the start guard and records the failure
func (t *Tracker) startFailed(err error) {
	t.mu.Lock()
	t.starting = false
	t.lastErr = err
	notify := t.notifierLocked()
	t.mu.Unlock()
	notify()
}

// notifierLocked captures the change callback and a snapshot so the
// callback can run after the lock is released.
func (t *Tracker) notifierLocked() func() {
	fn := t.onChange
	if fn == nil {
		return func() {}
	}
	snap := t.snapshotLocked()
	return func() { fn(snap) }
}

// connect dials the realtime channel for the given session generation
func (t *Tracker) connect(gen int) {
	handler := &channelHandler{t: t, gen: gen}
	ch, err := t.dialer.Dial(context.Background(), t.userID, handler)

	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		if ch != nil {
			ch.Close()
		}
		return
	}
	if err != nil {
		t.log.Warn("realtime channel dial failed", "error", err)
		t.degradeLocked()
		t.mu.Unlock()
		return
	}
	if t.downedConn == handler {
		// The connection died before the dial call returned; the down
		// handler has already started the fallback
		t.mu.Unlock()
		ch.Close()
		return
	}
	t.channel = ch
	t.retries = 0
	// The channel is authoritative while open; the fallback must not also
	// drive status updates
	t.stopPollingLocked()
	t.mu.Unlock()
}

// degradeLocked is the remedial action for a lost or failed channel: start
// the polling fallback now and schedule one reconnect attempt, unless the
// session is over or the order reached a terminal status.
func (t *Tracker) degradeLocked() {
	if t.order == nil || t.status.IsTerminal() {
		return
	}
	t.startPollingLocked()
	t.scheduleReconnectLocked()
}

func (t *Tracker) startPollingLocked() {
	if t.pollCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.pollCancel = cancel
	go t.pollLoop(ctx, t.gen)
}

func (t *Tracker) stopPollingLocked() {
	if t.pollCancel != nil {
		t.pollCancel()
		t.pollCancel = nil
	}
}

func (t *Tracker) scheduleReconnectLocked() {
	if t.reconnect != nil {
		return
	}
	if t.cfg.MaxRetries > 0 && t.retries >= t.cfg.MaxRetries {
		t.log.Warn("giving up on realtime channel", "retries", t.retries)
		return
	}
	t.retries++
	gen := t.gen
	t.reconnect = time.AfterFunc(t.cfg.ReconnectDelay, func() {
		t.mu.Lock()
		t.reconnect = nil
		if gen != t.gen || t.order == nil || t.status.IsTerminal() {
			t.mu.Unlock()
			return
		}
		t.mu.Unlock()
		t.connect(gen)
	})
}

func (t *Tracker) cancelReconnectLocked() {
	if t.reconnect != nil {
		t.reconnect.Stop()
		t.reconnect = nil
	}
}

func (t *Tracker) pollLoop(ctx context.Context, gen int) {
	ticker := time.NewTicker(t.cfg.PollInterval)
	defer ticker.Stop()

	for {
		t.pollOnce(ctx, gen)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (t *Tracker) pollOnce(ctx context.Context, gen int) {
	t.mu.Lock()
	if gen != t.gen || t.order == nil {
		t.mu.Unlock()
		return
	}
	orderID := t.order.ID
	t.mu.Unlock()

	fetched, err := t.orders.GetOrder(ctx, orderID)
	if err != nil {
		// Polling errors degrade silently; the next tick retries
		t.log.Debug("order poll failed", "order_id", orderID, "error", err)
		return
	}

	t.mu.Lock()
	if gen != t.gen || t.order == nil {
		t.mu.Unlock()
		return
	}
	if s, ok := models.ParseStatus(string(fetched.Status)); ok {
		t.status = s
	}
	if fetched.Staff != nil {
		t.order.Staff = fetched.Staff
	}
	if fetched.ETAMinutes != 0 {
		t.eta = fetched.ETAMinutes
	}
	if t.status.IsTerminal() {
		t.stopPollingLocked()
		t.cancelReconnectLocked()
	}
	notify := t.notifierLocked()
	t.mu.Unlock()
	notify()
}

// channelHandler forwards channel events into the tracker, pinned to the
// session generation it was created for.
type channelHandler struct {
	t   *Tracker
	gen int
}

func (h *channelHandler) HandleMessage(msg models.Message) {
	h.t.applyMessage(h.gen, msg)
}

func (h *channelHandler) HandleDown(err error) {
	h.t.channelDown(h, err)
}

func (t *Tracker) applyMessage(gen int, msg models.Message) {
	t.mu.Lock()
	if gen != t.gen || t.order == nil || msg.OrderID != t.order.ID {
		t.mu.Unlock()
		return
	}

	switch msg.Type {
	case models.TypePointsAwarded:
		t.points += msg.RewardPoints
	case models.TypeOrderStatus:
		if s, ok := msg.Status(); ok {
			t.status = s
		}
		if msg.Staff != nil {
			t.order.Staff = msg.Staff
		}
		if t.status.IsTerminal() {
			t.stopPollingLocked()
			t.cancelReconnectLocked()
		}
	}
	notify := t.notifierLocked()
	t.mu.Unlock()
	notify()
}

func (t *Tracker) channelDown(h *channelHandler, err error) {
	t.mu.Lock()
	if h.gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.log.Warn("realtime channel down", "error", err)
	t.channel = nil
	t.downedConn = h
	t.degradeLocked()
	t.mu.Unlock()
}
