package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// WalletProvider abstracts the injected crypto wallet. Real providers and the
// simulated one satisfy the same interface, so the payment flow never
// branches on which kind it is talking to.
type WalletProvider interface {
	// RequestAccounts asks the wallet for account access and returns the
	// available addresses. A user rejection comes back as an error.
	RequestAccounts(ctx context.Context) ([]string, error)
	// SendTransfer submits a transfer of amount (in asset units) to the
	// receiving address and returns a transaction reference.
	SendTransfer(ctx context.Context, to, amount string) (string, error)
	// OnAccountsChanged registers a callback for external account switches
	// and disconnects. An empty account list means the wallet disconnected.
	OnAccountsChanged(fn func(accounts []string))
}

const (
	defaultSimulatedLag     = time.Second
	defaultSimulatedAddress = "0x7a1FakeDemoWallet000000000000000000000001"
)

// SimulatedWallet is a stand-in provider used when no real wallet is wired
// up. It only runs when simulation mode is explicitly enabled in config;
// provider absence alone never activates it.
type SimulatedWallet struct {
	lag     time.Duration
	address string

	mu       sync.Mutex
	handlers []func(accounts []string)
}

// NewSimulatedWallet builds a simulated provider with the given connect lag
// and mock address. Zero values fall back to demo defaults.
func NewSimulatedWallet(lag time.Duration, address string) *SimulatedWallet {
	if lag <= 0 {
		lag = defaultSimulatedLag
	}
	if address == "" {
		address = defaultSimulatedAddress
	}
	return &SimulatedWallet{lag: lag, address: address}
}

// RequestAccounts waits the configured lag then hands out the mock address.
func (w *SimulatedWallet) RequestAccounts(ctx context.Context) ([]string, error) {
	if err := w.wait(ctx); err != nil {
		return nil, err
	}
	return []string{w.address}, nil
}

// SendTransfer pretends to broadcast a transfer and returns a synthetic
// transaction reference.
func (w *SimulatedWallet) SendTransfer(ctx context.Context, to, amount string) (string, error) {
	if to == "" {
		return "", fmt.Errorf("receiving address required")
	}
	if err := w.wait(ctx); err != nil {
		return "", err
	}
	return "sim-" + uuid.NewString(), nil
}

// OnAccountsChanged registers a handler, mirroring the event surface of a
// real provider.
func (w *SimulatedWallet) OnAccountsChanged(fn func(accounts []string)) {
	if fn == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, fn)
}

// EmitAccountsChanged fires all registered handlers. Used by tests to drive
// external disconnects.
func (w *SimulatedWallet) EmitAccountsChanged(accounts []string) {
	w.mu.Lock()
	handlers := make([]func([]string), len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	for _, fn := range handlers {
		fn(accounts)
	}
}

func (w *SimulatedWallet) wait(ctx context.Context) error {
	timer := time.NewTimer(w.lag)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
