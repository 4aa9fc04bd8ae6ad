package api

import (
	"context"
	"net/http"
)

// DebitRequest is the payload for a wallet debit tied to an order
type DebitRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	UserID      string  `json:"userId"`
	OrderID     string  `json:"order_id"`
}

// DebitWallet charges the user's campus wallet for an order
func (c *Client) DebitWallet(ctx context.Context, req DebitRequest) error {
	status, body, err := c.roundTrip(ctx, http.MethodPost, "/wallet/debit", req)
	if err != nil {
		return &WalletDebitError{OrderID: req.OrderID, Message: err.Error()}
	}
	if !success(status) {
		d := parseDetail(body, "wallet debit failed")
		return &WalletDebitError{OrderID: req.OrderID, Message: d.Message}
	}
	return nil
}
