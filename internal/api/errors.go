package api

import (
	"encoding/json"
	"fmt"
)

// OrderCreationError means the order could not be created; nothing was
// charged and no tracking began.
type OrderCreationError struct {
	Code    string
	Status  string
	Message string
}

func (e *OrderCreationError) Error() string {
	return fmt.Sprintf("create order: %s", e.Message)
}

// OrderFetchError means an order could not be retrieved
type OrderFetchError struct {
	OrderID string
	Message string
}

func (e *OrderFetchError) Error() string {
	return fmt.Sprintf("fetch order %s: %s", e.OrderID, e.Message)
}

// OrderCancelError means a cancel request was rejected; the tracking view
// stays open so the user can retry.
type OrderCancelError struct {
	OrderID string
	Message string
}

func (e *OrderCancelError) Error() string {
	return fmt.Sprintf("cancel order %s: %s", e.OrderID, e.Message)
}

// OrderRatingError means a rating could not be submitted
type OrderRatingError struct {
	OrderID string
	Message string
}

func (e *OrderRatingError) Error() string {
	return fmt.Sprintf("rate order %s: %s", e.OrderID, e.Message)
}

// WalletDebitError means the wallet debit failed after order creation; the
// coordinator attempts a compensating cancellation before surfacing it.
type WalletDebitError struct {
	OrderID string
	Message string
}

func (e *WalletDebitError) Error() string {
	return fmt.Sprintf("wallet debit for order %s: %s", e.OrderID, e.Message)
}

// detail is the normalized server error payload. Servers report errors as
// {"detail": "..."} with detail either a plain string or
// {code, status, message}, or as a bare {"message": "..."}. Normalization
// happens here and nowhere deeper.
type detail struct {
	Code    string `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

func parseDetail(body []byte, fallback string) detail {
	d := detail{Message: fallback}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return d
	}
	if len(env.Detail) > 0 {
		var s string
		if err := json.Unmarshal(env.Detail, &s); err == nil {
			if s != "" {
				d.Message = s
			}
			return d
		}
		var obj detail
		if err := json.Unmarshal(env.Detail, &obj); err == nil {
			d.Code = obj.Code
			d.Status = obj.Status
			if obj.Message != "" {
				d.Message = obj.Message
			}
			return d
		}
	}
	if env.Message != "" {
		d.Message = env.Message
	}
	return d
}
