package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/brightbite/campus-client/internal/models"
)

// CreateOrderRequest is the payload for order creation
type CreateOrderRequest struct {
	RestaurantID     string                 `json:"restaurantId"`
	PaymentMethod    models.PaymentMethod   `json:"paymentMethod"`
	Items            []models.OrderItem     `json:"items"`
	Total            float64                `json:"total"`
	ServiceType      models.ServiceType     `json:"serviceType"`
	DeliveryLocation string                 `json:"deliveryLocation,omitempty"`
	CustomerDetails  models.CustomerDetails `json:"customerDetails"`
	AppliedDealID    string                 `json:"appliedDealId,omitempty"`
	DiscountAmount   float64                `json:"discountAmount,omitempty"`
}

type orderEnvelope struct {
	Order *models.Order `json:"order"`
}

// CreateOrder creates a new order
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if req.RestaurantID == "" {
		return nil, &OrderCreationError{Message: "restaurant is required"}
	}
	if len(req.Items) == 0 {
		return nil, &OrderCreationError{Message: "order has no items"}
	}
	if req.PaymentMethod == "" {
		return nil, &OrderCreationError{Message: "payment method is required"}
	}
	if req.ServiceType == "" {
		return nil, &OrderCreationError{Message: "service type is required"}
	}

	status, body, err := c.roundTrip(ctx, http.MethodPost, "/student/orders", req)
	if err != nil {
		return nil, &OrderCreationError{Message: err.Error()}
	}
	if !success(status) {
		d := parseDetail(body, "order could not be placed")
		return nil, &OrderCreationError{Code: d.Code, Status: d.Status, Message: d.Message}
	}

	var env orderEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Order == nil {
		return nil, &OrderCreationError{Message: "unexpected create order response"}
	}
	return env.Order, nil
}

// GetOrder retrieves an order by ID
func (c *Client) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	status, body, err := c.roundTrip(ctx, http.MethodGet, "/student/orders/"+orderID, nil)
	if err != nil {
		return nil, &OrderFetchError{OrderID: orderID, Message: err.Error()}
	}
	if !success(status) {
		d := parseDetail(body, "order could not be fetched")
		return nil, &OrderFetchError{OrderID: orderID, Message: d.Message}
	}

	var env orderEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Order == nil {
		return nil, &OrderFetchError{OrderID: orderID, Message: "unexpected order response"}
	}
	return env.Order, nil
}

// CancelOrder cancels a pending order
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	status, body, err := c.roundTrip(ctx, http.MethodPut, "/student/orders/"+orderID+"/cancel", nil)
	if err != nil {
		return &OrderCancelError{OrderID: orderID, Message: err.Error()}
	}
	if !success(status) {
		d := parseDetail(body, "order could not be cancelled")
		return &OrderCancelError{OrderID: orderID, Message: d.Message}
	}
	return nil
}

// RateOrder submits a 1-5 rating for a completed order
func (c *Client) RateOrder(ctx context.Context, orderID string, rating int) error {
	if rating < 1 || rating > 5 {
		return &OrderRatingError{OrderID: orderID, Message: "rating must be between 1 and 5"}
	}
	payload := struct {
		Rating int `json:"rating"`
	}{Rating: rating}

	status, body, err := c.roundTrip(ctx, http.MethodPost, "/student/orders/"+orderID+"/rate", payload)
	if err != nil {
		return &OrderRatingError{OrderID: orderID, Message: err.Error()}
	}
	if !success(status) {
		d := parseDetail(body, "rating could not be submitted")
		return &OrderRatingError{OrderID: orderID, Message: d.Message}
	}
	return nil
}
