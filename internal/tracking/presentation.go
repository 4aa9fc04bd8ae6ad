package tracking

import "github.com/brightbite/campus-client/internal/models"

// Presentation is the human-readable rendering of one order status
type Presentation struct {
	Label       string
	Description string
}

var presentations = map[models.OrderStatus]Presentation{
	models.OrderStatusPendingConfirmation: {
		Label:       "Waiting for confirmation",
		Description: "The canteen is reviewing your order.",
	},
	models.OrderStatusConfirmed: {
		Label:       "Order confirmed",
		Description: "The canteen has accepted your order.",
	},
	models.OrderStatusRejected: {
		Label:       "Order rejected",
		Description: "The canteen could not take your order. You were not charged.",
	},
	models.OrderStatusPaymentProcessing: {
		Label:       "Processing payment",
		Description: "Your payment is being processed.",
	},
	models.OrderStatusPreparing: {
		Label:       "Preparing your food",
		Description: "Your meal is being prepared.",
	},
	models.OrderStatusReadyForPickup: {
		Label:       "Ready for pickup",
		Description: "Your order is ready at the counter.",
	},
	models.OrderStatusOnTheWay: {
		Label:       "On the way",
		Description: "A delivery staff member is bringing your order.",
	},
	models.OrderStatusArrivingSoon: {
		Label:       "Arriving soon",
		Description: "Your order is almost there.",
	},
	models.OrderStatusDelivered: {
		Label:       "Delivered",
		Description: "Your order has been delivered.",
	},
	models.OrderStatusCompleted: {
		Label:       "Order complete",
		Description: "Enjoy your meal!",
	},
	models.OrderStatusRatingPending: {
		Label:       "How was it?",
		Description: "Rate your order to earn reward points.",
	},
}

// Present looks up the presentation for a status. Unknown or empty statuses
// report ok=false and render nothing.
func Present(status models.OrderStatus) (Presentation, bool) {
	p, ok := presentations[status]
	return p, ok
}
