// Package checkout collects cart contents, service and payment choices and
// hands a normalized order payload to the lifecycle tracker. Checkout and
// tracking are mutually exclusive: while an order is active the checkout
// surface stays hidden.
package checkout

import (
	"context"
	"errors"

	"github.com/brightbite/campus-client/internal/api"
	"github.com/brightbite/campus-client/internal/models"
	"github.com/brightbite/campus-client/internal/tracking"
)

// CartItem is one line in the cart
type CartItem struct {
	ID             int64
	Name           string
	Quantity       int
	Price          float64
	Customizations string
}

// Deal is an applied discount
type Deal struct {
	ID       string
	Discount float64
}

// Flow is one checkout session for a single vendor
type Flow struct {
	tracker *tracking.Tracker

	VendorID         string
	Items            []CartItem
	ServiceType      models.ServiceType
	DeliveryLocation string
	Customer         models.CustomerDetails
	PaymentMethod    models.PaymentMethod
	Deal             *Deal
}

// NewFlow creates a checkout flow feeding the given tracker
func NewFlow(tracker *tracking.Tracker) *Flow {
	return &Flow{tracker: tracker, ServiceType: models.ServiceTypePickup, PaymentMethod: models.PaymentMethodCash}
}

// AddItem puts an item in the cart, merging quantities for repeated lines
func (f *Flow) AddItem(item CartItem) {
	for i := range f.Items {
		if f.Items[i].ID == item.ID && f.Items[i].Customizations == item.Customizations {
			f.Items[i].Quantity += item.Quantity
			return
		}
	}
	f.Items = append(f.Items, item)
}

// Subtotal is the cart total before any discount
func (f *Flow) Subtotal() float64 {
	var sum float64
	for _, item := range f.Items {
		sum += item.Price * float64(item.Quantity)
	}
	return sum
}

// Total applies the deal discount, floored at zero
func (f *Flow) Total() float64 {
	total := f.Subtotal()
	if f.Deal != nil {
		total -= f.Deal.Discount
	}
	if total < 0 {
		total = 0
	}
	return total
}

// CheckoutVisible reports whether the checkout surface should show; it is
// hidden whenever an order is being tracked.
func (f *Flow) CheckoutVisible() bool {
	return !f.tracker.Active()
}

// PlaceOrder normalizes the checkout state into an order payload and starts
// the lifecycle tracker. The checkout surface closes before the call; on
// failure the tracker records the error and no order is active.
func (f *Flow) PlaceOrder(ctx context.Context) error {
	if f.tracker.Active() {
		return tracking.ErrOrderActive
	}
	if f.VendorID == "" {
		return errors.New("no vendor selected")
	}
	if len(f.Items) == 0 {
		return errors.New("cart is empty")
	}
	if f.ServiceType == models.ServiceTypeDelivery && f.DeliveryLocation == "" {
		return errors.New("delivery location is required")
	}

	req := api.CreateOrderRequest{
		RestaurantID:     f.VendorID,
		PaymentMethod:    f.PaymentMethod,
		Items:            f.normalizedItems(),
		Total:            f.Total(),
		ServiceType:      f.ServiceType,
		DeliveryLocation: f.DeliveryLocation,
		CustomerDetails:  f.Customer,
	}
	if f.Deal != nil {
		req.AppliedDealID = f.Deal.ID
		req.DiscountAmount = f.Deal.Discount
	}

	if err := f.tracker.StartOrder(ctx, req); err != nil {
		return err
	}
	f.Items = nil
	f.Deal = nil
	return nil
}

func (f *Flow) normalizedItems() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(f.Items))
	for _, item := range f.Items {
		items = append(items, models.OrderItem{
			ID:             item.ID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			Price:          item.Price,
			Customizations: item.Customizations,
		})
	}
	return items
}
