package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brightbite/campus-client/internal/api"
	"github.com/brightbite/campus-client/internal/models"
	"github.com/brightbite/campus-client/internal/wallet"
)

// WalletAPI is the slice of the API client the coordinator debits through
type WalletAPI interface {
	DebitWallet(ctx context.Context, req api.DebitRequest) error
}

// OrderCanceller is the slice of the API client used for compensation
type OrderCanceller interface {
	CancelOrder(ctx context.Context, orderID string) error
}

// Coordinator settles payment for a freshly created order. Orders are
// created before any debit so a customer is never charged for an order the
// vendor might reject; a failed debit is compensated by cancelling the order.
type Coordinator struct {
	wallet   WalletAPI
	orders   OrderCanceller
	notifier *wallet.Notifier
	userID   string
	log      *slog.Logger
}

// NewCoordinator creates a new payment coordinator
func NewCoordinator(walletAPI WalletAPI, orders OrderCanceller, notifier *wallet.Notifier, userID string, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		wallet:   walletAPI,
		orders:   orders,
		notifier: notifier,
		userID:   userID,
		log:      log,
	}
}

// Settle performs the payment side effect for a created order. Cash orders
// are a no-op. Wallet orders debit the order total; on debit failure the
// order is cancelled best-effort and the debit error is returned. A
// cancellation failure is logged, never surfaced in place of the debit error.
func (c *Coordinator) Settle(ctx context.Context, order *models.Order, method models.PaymentMethod) error {
	if method != models.PaymentMethodWallet {
		return nil
	}

	err := c.wallet.DebitWallet(ctx, api.DebitRequest{
		Amount:      order.Total,
		Description: fmt.Sprintf("Canteen order %s", order.ID),
		UserID:      c.userID,
		OrderID:     order.ID,
	})
	if err != nil {
		if cancelErr := c.orders.CancelOrder(ctx, order.ID); cancelErr != nil {
			c.log.Error("compensating cancel failed", "order_id", order.ID, "error", cancelErr)
		}
		return err
	}

	if c.notifier != nil {
		c.notifier.BalanceChanged()
	}
	return nil
}
