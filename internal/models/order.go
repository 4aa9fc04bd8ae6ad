package models

import "time"

// OrderStatus represents the status of an order. The server is the sole
// authority over transitions; clients accept any known status at any time.
type OrderStatus string

const (
	OrderStatusPendingConfirmation OrderStatus = "PENDING_CONFIRMATION"
	OrderStatusConfirmed           OrderStatus = "CONFIRMED"
	OrderStatusRejected            OrderStatus = "REJECTED"
	OrderStatusPaymentProcessing   OrderStatus = "PAYMENT_PROCESSING"
	OrderStatusPreparing           OrderStatus = "PREPARING"
	OrderStatusReadyForPickup      OrderStatus = "READY_FOR_PICKUP"
	OrderStatusOnTheWay            OrderStatus = "ON_THE_WAY"
	OrderStatusArrivingSoon        OrderStatus = "ARRIVING_SOON"
	OrderStatusDelivered           OrderStatus = "DELIVERED"
	OrderStatusCompleted           OrderStatus = "COMPLETED"
	OrderStatusRatingPending       OrderStatus = "RATING_PENDING"
)

// ServiceType is how the customer receives the order
type ServiceType string

const (
	ServiceTypePickup   ServiceType = "pickup"
	ServiceTypeDelivery ServiceType = "delivery"
)

// PaymentMethod is how the customer pays for the order
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodWallet PaymentMethod = "wallet"
)

// ParseStatus validates a raw status string against the closed enumeration.
// Unknown strings report ok=false; callers treat those as no-ops.
func ParseStatus(raw string) (OrderStatus, bool) {
	switch s := OrderStatus(raw); s {
	case OrderStatusPendingConfirmation, OrderStatusConfirmed, OrderStatusRejected,
		OrderStatusPaymentProcessing, OrderStatusPreparing, OrderStatusReadyForPickup,
		OrderStatusOnTheWay, OrderStatusArrivingSoon, OrderStatusDelivered,
		OrderStatusCompleted, OrderStatusRatingPending:
		return s, true
	default:
		return "", false
	}
}

// StatusFromUI maps the condensed ui_status vocabulary some server frames
// carry onto the full enumeration.
func StatusFromUI(raw string) (OrderStatus, bool) {
	switch raw {
	case "pending":
		return OrderStatusPendingConfirmation, true
	case "preparing":
		return OrderStatusPreparing, true
	case "ready":
		return OrderStatusReadyForPickup, true
	case "completed":
		return OrderStatusCompleted, true
	case "cancelled":
		return OrderStatusRejected, true
	default:
		return "", false
	}
}

// IsTerminal reports whether background synchronization should stop for
// this status. RATING_PENDING is terminal for sync purposes even though the
// UI may still collect a rating.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusRejected, OrderStatusDelivered, OrderStatusCompleted, OrderStatusRatingPending:
		return true
	default:
		return false
	}
}

// Order represents one placed food order as the server reports it
type Order struct {
	ID           string         `json:"id"`
	RestaurantID string         `json:"restaurantId"`
	Items        []OrderItem    `json:"items"`
	Total        float64        `json:"total"`
	Status       OrderStatus    `json:"status"`
	ServiceType  ServiceType    `json:"serviceType,omitempty"`
	Payment      PaymentMethod  `json:"paymentMethod,omitempty"`
	ETAMinutes   int            `json:"etaMinutes,omitempty"`
	Staff        *DeliveryStaff `json:"staff,omitempty"`
	CreatedAt    time.Time      `json:"createdAt,omitempty"`
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	Price          float64 `json:"price"`
	Customizations string  `json:"customizations,omitempty"`
}

// DeliveryStaff is the staff member assigned to a delivery order
type DeliveryStaff struct {
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
	ProfilePhotoURL string `json:"profile_photo_url"`
}

// CustomerDetails identifies the customer at checkout
type CustomerDetails struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}
