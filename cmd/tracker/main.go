package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/brightbite/campus-client/internal/api"
	"github.com/brightbite/campus-client/internal/checkout"
	"github.com/brightbite/campus-client/internal/config"
	"github.com/brightbite/campus-client/internal/models"
	"github.com/brightbite/campus-client/internal/payment"
	"github.com/brightbite/campus-client/internal/realtime"
	"github.com/brightbite/campus-client/internal/session"
	"github.com/brightbite/campus-client/internal/tracking"
	"github.com/brightbite/campus-client/internal/wallet"
)

// orderFile describes the order placed by the demo
type orderFile struct {
	VendorID         string                 `json:"vendorId"`
	ServiceType      models.ServiceType     `json:"serviceType"`
	PaymentMethod    models.PaymentMethod   `json:"paymentMethod"`
	DeliveryLocation string                 `json:"deliveryLocation"`
	Customer         models.CustomerDetails `json:"customer"`
	Items            []checkout.CartItem    `json:"items"`
	Deal             *checkout.Deal         `json:"deal"`
}

func main() {
	orderPath := flag.String("order", "order.json", "path to the order description")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Local overrides live in .env during development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	sess, err := session.FromToken(os.Getenv("BRIGHTBITE_TOKEN"))
	if err != nil {
		logger.Error("Failed to build session from BRIGHTBITE_TOKEN", "error", err)
		os.Exit(1)
	}

	spec, err := loadOrderFile(*orderPath)
	if err != nil {
		logger.Error("Failed to read order file", "path", *orderPath, "error", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.API.BaseURL, cfg.API.TimeoutDuration(), sess.TokenSource(), logger)

	notifier := wallet.NewNotifier()
	notifier.Subscribe(func() {
		logger.Info("Wallet balance changed; refresh any balance display")
	})

	coordinator := payment.NewCoordinator(client, client, notifier, sess.UserID, logger)
	dialer := realtime.NewDialer(cfg.Realtime.URL, logger)

	tracker := tracking.NewTracker(tracking.Config{
		PollInterval:   cfg.Tracking.PollIntervalDuration(),
		ReconnectDelay: cfg.Realtime.ReconnectDelayDuration(),
		MaxRetries:     cfg.Realtime.MaxRetries,
	}, client, coordinator, tracking.NewRealtimeDialer(dialer), sess.UserID, logger)

	done := make(chan struct{})
	var once sync.Once
	tracker.OnChange(func(snap tracking.Snapshot) {
		if snap.Err != nil {
			logger.Error("Order failed", "error", snap.Err)
			once.Do(func() { close(done) })
			return
		}
		vm := tracking.BuildView(snap.Order, snap.Status, snap.ETAMinutes)
		if !vm.Known {
			return
		}
		fmt.Printf("\n%s\n%s\n", vm.Label, vm.Description)
		if vm.ETAMinutes > 0 {
			fmt.Printf("Estimated time: %d min\n", vm.ETAMinutes)
		}
		if vm.ClaimNotice {
			fmt.Println("Be ready to claim your order!")
		}
		if vm.Staff != nil {
			fmt.Printf("Delivery by %s (%s)\n", vm.Staff.FullName, vm.Staff.Phone)
		}
		if snap.Points > 0 {
			fmt.Printf("Reward points earned: %d\n", snap.Points)
		}
		if snap.Status.IsTerminal() {
			once.Do(func() { close(done) })
		}
	})

	flow := checkout.NewFlow(tracker)
	flow.VendorID = spec.VendorID
	flow.ServiceType = spec.ServiceType
	flow.PaymentMethod = spec.PaymentMethod
	flow.DeliveryLocation = spec.DeliveryLocation
	flow.Customer = spec.Customer
	flow.Deal = spec.Deal
	for _, item := range spec.Items {
		flow.AddItem(item)
	}

	logger.Info("Placing order", "vendor", flow.VendorID, "total", flow.Total())
	if err := flow.PlaceOrder(context.Background()); err != nil {
		logger.Error("Order was not placed", "error", err)
		os.Exit(1)
	}

	// Track until a terminal status or an interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
	case <-quit:
		logger.Info("Interrupted; dismissing tracker")
	}

	tracker.Dismiss()
	logger.Info("Tracking session closed")
}

func loadOrderFile(path string) (*orderFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var spec orderFile
	if err := json.NewDecoder(f).Decode(&spec); err != nil {
		return nil, err
	}
	return &spec, nil
}
