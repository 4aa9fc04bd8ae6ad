package tracking

import (
	"context"
	"errors"

	"github.com/brightbite/campus-client/internal/models"
)

// ViewModel is the tracking view's render state: a pure function of the
// tracker's (order, status, eta) triple.
type ViewModel struct {
	Known       bool
	Label       string
	Description string
	ETAMinutes  int
	// ClaimNotice tells the customer to be ready to claim the order
	ClaimNotice bool
	// CanCancel is true only while the order awaits confirmation
	CanCancel bool
	// AwaitRating is true while the order waits for a 1-5 rating
	AwaitRating bool
	Staff       *models.DeliveryStaff
}

// BuildView renders the current state into a view model. An unknown status
// yields Known=false and the view renders nothing.
func BuildView(order *models.Order, status models.OrderStatus, etaMinutes int) ViewModel {
	if order == nil {
		return ViewModel{}
	}
	p, ok := Present(status)
	if !ok {
		return ViewModel{}
	}

	vm := ViewModel{
		Known:       true,
		Label:       p.Label,
		Description: p.Description,
		ETAMinutes:  etaMinutes,
		CanCancel:   status == models.OrderStatusPendingConfirmation,
		AwaitRating: status == models.OrderStatusRatingPending,
		Staff:       order.Staff,
	}
	switch status {
	case models.OrderStatusArrivingSoon:
		vm.ClaimNotice = true
	case models.OrderStatusReadyForPickup:
		vm.ClaimNotice = order.ServiceType == models.ServiceTypePickup
	}
	return vm
}

// ViewAPI is the slice of the API client the view acts through
type ViewAPI interface {
	CancelOrder(ctx context.Context, orderID string) error
	RateOrder(ctx context.Context, orderID string, rating int) error
}

// View binds the tracker's state to user actions. Rendering stays pure;
// the host UI decides how the view model is drawn.
type View struct {
	orders  ViewAPI
	tracker *Tracker

	// Confirm gates the destructive cancel action; returning false aborts
	Confirm func(prompt string) bool
	// OnClose runs after the view is closed or a cancel succeeds
	OnClose func()
	// OnRate runs after a rating is accepted
	OnRate func(rating int)
}

// NewView creates a tracking view over a tracker
func NewView(orders ViewAPI, tracker *Tracker) *View {
	return &View{orders: orders, tracker: tracker}
}

// Render builds the view model for the tracker's current state
func (v *View) Render() ViewModel {
	snap := v.tracker.Snapshot()
	return BuildView(snap.Order, snap.Status, snap.ETAMinutes)
}

// ErrCancelUnavailable is returned when cancel is attempted outside the
// pending-confirmation window.
var ErrCancelUnavailable = errors.New("order can no longer be cancelled")

// ErrRatingUnavailable is returned when a rating is attempted before the
// order is waiting for one.
var ErrRatingUnavailable = errors.New("order is not awaiting a rating")

// Cancel cancels the tracked order after user confirmation. On success the
// view closes; on failure the view stays open so the user can retry.
func (v *View) Cancel(ctx context.Context) error {
	snap := v.tracker.Snapshot()
	if snap.Order == nil || snap.Status != models.OrderStatusPendingConfirmation {
		return ErrCancelUnavailable
	}
	if v.Confirm != nil && !v.Confirm("Cancel this order?") {
		return nil
	}
	if err := v.orders.CancelOrder(ctx, snap.Order.ID); err != nil {
		return err
	}
	v.Close()
	return nil
}

// Rate submits a 1-5 rating for the tracked order
func (v *View) Rate(ctx context.Context, rating int) error {
	snap := v.tracker.Snapshot()
	if snap.Order == nil || snap.Status != models.OrderStatusRatingPending {
		return ErrRatingUnavailable
	}
	if err := v.orders.RateOrder(ctx, snap.Order.ID, rating); err != nil {
		return err
	}
	if v.OnRate != nil {
		v.OnRate(rating)
	}
	return nil
}

// Close dismisses the tracking session
func (v *View) Close() {
	v.tracker.Dismiss()
	if v.OnClose != nil {
		v.OnClose()
	}
}
