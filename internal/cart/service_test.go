package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/argentum-atelier/storefront-backend/pkg/db/models"
	pkgerrors "github.com/argentum-atelier/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type memoryRepo struct {
	carts   map[string][]Line
	loadErr error
	saveErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{carts: map[string][]Line{}}
}

func (m *memoryRepo) Load(ctx context.Context, sessionID string) ([]Line, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	stored := m.carts[sessionID]
	out := make([]Line, len(stored))
	copy(out, stored)
	return out, nil
}

func (m *memoryRepo) Save(ctx context.Context, sessionID string, lines []Line) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	stored := make([]Line, len(lines))
	copy(stored, lines)
	m.carts[sessionID] = stored
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

type recordingNotifier struct {
	messages []string
}

func (r *recordingNotifier) CartUpdated(ctx context.Context, sessionID, message string) {
	r.messages = append(r.messages, message)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return svc
}

func testProduct(name string, price int64) models.Product {
	return models.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.NewFromInt(price),
		ImageURL: "https://cdn.example.com/" + name + ".jpg",
	}
}

func TestAddMergesRepeatedProduct(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryRepo())
	ctx := context.Background()
	candlestick := testProduct("Candlestick", 450)

	if _, err := svc.Add(ctx, "s1", candlestick, 1); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	lines, err := svc.Add(ctx, "s1", candlestick, 2)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", lines[0].Quantity)
	}

	total, err := svc.Total(ctx, "s1")
	if err != nil {
		t.Fatalf("total failed: %v", err)
	}
	if !total.Equal(decimal.NewFromInt(1350)) {
		t.Fatalf("expected total 1350, got %s", total)
	}
}

func TestAddSnapshotsPriceAtAddTime(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryRepo())
	ctx := context.Background()
	teapot := testProduct("Teapot", 900)

	if _, err := svc.Add(ctx, "s1", teapot, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	// Catalog price changes after the add must not alter the carted line.
	teapot.Price = decimal.NewFromInt(1200)

	lines, err := svc.Lines(ctx, "s1")
	if err != nil {
		t.Fatalf("lines failed: %v", err)
	}
	if !lines[0].UnitPrice.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("expected snapshot price 900, got %s", lines[0].UnitPrice)
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryRepo())
	ctx := context.Background()

	first := testProduct("Fork", 120)
	second := testProduct("Spoon", 110)
	third := testProduct("Knife", 130)

	for _, p := range []models.Product{first, second, third} {
		if _, err := svc.Add(ctx, "s1", p, 1); err != nil {
			t.Fatalf("add failed: %v", err)
		}
	}
	// Re-adding the first product must merge, not move it.
	lines, err := svc.Add(ctx, "s1", first, 1)
	if err != nil {
		t.Fatalf("merge add failed: %v", err)
	}

	want := []string{first.ID.String(), second.ID.String(), third.ID.String()}
	for i, id := range want {
		if lines[i].ProductID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, lines[i].ProductID)
		}
	}
}

func TestAddToleratesBadInput(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	lines, err := svc.Add(ctx, "s1", testProduct("Tray", 300), -2)
	if err != nil {
		t.Fatalf("negative quantity must not error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("negative quantity must be a no-op, got %d lines", len(lines))
	}

	lines, err = svc.Add(ctx, "s1", models.Product{}, 1)
	if err != nil {
		t.Fatalf("zero-value product must not error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("invalid product must be a no-op, got %d lines", len(lines))
	}
}

func TestUpdateQuantityToZeroRemovesLine(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryRepo())
	ctx := context.Background()
	bowl := testProduct("Bowl", 220)

	if _, err := svc.Add(ctx, "s1", bowl, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	lines, err := svc.UpdateQuantity(ctx, "s1", bowl.ID.String(), 0)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(lines))
	}
}

func TestUpdateQuantityUnknownProductIsNoop(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Add(ctx, "s1", testProduct("Ladle", 180), 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	lines, err := svc.UpdateQuantity(ctx, "s1", uuid.NewString(), 5)
	if err != nil {
		t.Fatalf("unknown id must not error: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("unknown id must leave the cart unchanged: %+v", lines)
	}
}

func TestQuantityInvariantAfterUpdates(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryRepo())
	ctx := context.Background()

	a := testProduct("Goblet", 340)
	b := testProduct("Platter", 560)
	if _, err := svc.Add(ctx, "s1", a, 3); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.Add(ctx, "s1", b, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if _, err := svc.UpdateQuantity(ctx, "s1", a.ID.String(), -4); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	lines, err := svc.UpdateQuantity(ctx, "s1", b.ID.String(), 2)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	for _, line := range lines {
		if line.Quantity < 1 {
			t.Fatalf("line %s violates quantity invariant: %d", line.ProductID, line.Quantity)
		}
	}
	if len(lines) != 1 || lines[0].ProductID != b.ID.String() {
		t.Fatalf("expected only the second product to remain: %+v", lines)
	}
}

func TestRemoveAbsentProductIsNoop(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Remove(ctx, "s1", uuid.NewString()); err != nil {
		t.Fatalf("remove on empty cart must not error: %v", err)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Add(ctx, "s1", testProduct("Salver", 780), 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.Clear(ctx, "s1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	count, err := svc.ItemCount(ctx, "s1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty cart after clear, got %d items", count)
	}
}

func TestItemCountSumsQuantities(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Add(ctx, "s1", testProduct("Tumbler", 95), 4); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.Add(ctx, "s1", testProduct("Carafe", 410), 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	count, err := svc.ItemCount(ctx, "s1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 6 {
		t.Fatalf("expected 6 items, got %d", count)
	}
}

func TestNotifierReceivesMessages(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	svc, err := NewService(newMemoryRepo(), notifier)
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}

	if _, err := svc.Add(context.Background(), "s1", testProduct("Mirror", 2100), 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if len(notifier.messages) != 1 || notifier.messages[0] != "Added Mirror to your cart" {
		t.Fatalf("unexpected notifications: %v", notifier.messages)
	}
}

func TestRepositoryFailureSurfacesAsDependencyError(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	repo.loadErr = errors.New("redis gone")
	svc := newTestService(t, repo)

	_, err := svc.Lines(context.Background(), "s1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestEmptySessionRejected(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemoryRepo())

	_, err := svc.Lines(context.Background(), "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
