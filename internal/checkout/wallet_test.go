package checkout

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestSimulatedWalletHandsOutMockAddress(t *testing.T) {
	t.Parallel()

	wallet := NewSimulatedWallet(time.Millisecond, "0xdemo")

	accounts, err := wallet.RequestAccounts(context.Background())
	if err != nil {
		t.Fatalf("RequestAccounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0] != "0xdemo" {
		t.Fatalf("expected the configured mock address, got %v", accounts)
	}
}

func TestSimulatedWalletRespectsCancellation(t *testing.T) {
	t.Parallel()

	wallet := NewSimulatedWallet(time.Minute, "0xdemo")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := wallet.RequestAccounts(ctx); err == nil {
		t.Fatal("expected a cancellation error")
	}
}

func TestSimulatedWalletTransfer(t *testing.T) {
	t.Parallel()

	wallet := NewSimulatedWallet(time.Millisecond, "0xdemo")

	if _, err := wallet.SendTransfer(context.Background(), "", "0.005"); err == nil {
		t.Fatal("expected error for missing receiving address")
	}

	txRef, err := wallet.SendTransfer(context.Background(), "bc1q-receiving", "0.005")
	if err != nil {
		t.Fatalf("SendTransfer: %v", err)
	}
	if !strings.HasPrefix(txRef, "sim-") {
		t.Fatalf("expected a simulated tx reference, got %q", txRef)
	}
}

func TestSimulatedWalletAccountsChanged(t *testing.T) {
	t.Parallel()

	wallet := NewSimulatedWallet(time.Millisecond, "0xdemo")

	var seen [][]string
	wallet.OnAccountsChanged(func(accounts []string) {
		seen = append(seen, accounts)
	})
	wallet.EmitAccountsChanged(nil)
	wallet.EmitAccountsChanged([]string{"0xswitched"})

	if len(seen) != 2 {
		t.Fatalf("expected 2 events, got %d", len(seen))
	}
	if len(seen[0]) != 0 {
		t.Fatalf("first event must be a disconnect, got %v", seen[0])
	}
	if seen[1][0] != "0xswitched" {
		t.Fatalf("expected switched account, got %v", seen[1])
	}
}
