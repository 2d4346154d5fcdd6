package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/argentum-atelier/storefront-backend/internal/notifications"
	"github.com/argentum-atelier/storefront-backend/pkg/db/models"
	pkgerrors "github.com/argentum-atelier/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service exposes the cart store. All mutation operations are total over
// well-formed input: bad quantities and unknown product ids downgrade to
// no-ops, never errors. Only repository failures surface.
type Service interface {
	Add(ctx context.Context, sessionID string, product models.Product, quantity int) ([]Line, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) ([]Line, error)
	Remove(ctx context.Context, sessionID, productID string) ([]Line, error)
	Clear(ctx context.Context, sessionID string) error
	Lines(ctx context.Context, sessionID string) ([]Line, error)
	ItemCount(ctx context.Context, sessionID string) (int, error)
	Total(ctx context.Context, sessionID string) (decimal.Decimal, error)
}

type service struct {
	repo     Repository
	notifier notifications.Notifier
}

// NewService builds a cart service backed by the given repository.
func NewService(repo Repository, notifier notifications.Notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if notifier == nil {
		notifier = notifications.NopNotifier{}
	}
	return &service{repo: repo, notifier: notifier}, nil
}

// Add merges the product into the cart. An existing line's quantity is
// incremented; otherwise a new line is appended carrying a snapshot of the
// product's current name, price and image.
func (s *service) Add(ctx context.Context, sessionID string, product models.Product, quantity int) ([]Line, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	if quantity <= 0 || !validProduct(product) {
		return lines, nil
	}

	merged := false
	productID := product.ID.String()
	for i := range lines {
		if lines[i].ProductID == productID {
			lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, snapshotLine(product, quantity))
	}

	if err := s.repo.Save(ctx, sessionID, lines); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}

	s.notifier.CartUpdated(ctx, sessionID, fmt.Sprintf("Added %s to your cart", product.Name))
	return lines, nil
}

// UpdateQuantity sets a line's quantity. Zero or negative removes the line;
// an unknown product id is a no-op.
func (s *service) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) ([]Line, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	idx := indexOf(lines, productID)
	if idx < 0 {
		return lines, nil
	}

	var message string
	if quantity <= 0 {
		message = fmt.Sprintf("Removed %s from your cart", lines[idx].Name)
		lines = append(lines[:idx], lines[idx+1:]...)
	} else {
		message = fmt.Sprintf("Updated %s quantity to %d", lines[idx].Name, quantity)
		lines[idx].Quantity = quantity
	}

	if err := s.repo.Save(ctx, sessionID, lines); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}

	s.notifier.CartUpdated(ctx, sessionID, message)
	return lines, nil
}

// Remove deletes the line unconditionally; absent ids are a no-op.
func (s *service) Remove(ctx context.Context, sessionID, productID string) ([]Line, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}

	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	idx := indexOf(lines, productID)
	if idx < 0 {
		return lines, nil
	}

	name := lines[idx].Name
	lines = append(lines[:idx], lines[idx+1:]...)

	if err := s.repo.Save(ctx, sessionID, lines); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}

	s.notifier.CartUpdated(ctx, sessionID, fmt.Sprintf("Removed %s from your cart", name))
	return lines, nil
}

// Clear empties the cart. Called once per completed checkout.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := requireSession(sessionID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// Lines returns the cart in insertion order.
func (s *service) Lines(ctx context.Context, sessionID string) ([]Line, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	lines, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return lines, nil
}

// ItemCount sums all line quantities.
func (s *service) ItemCount(ctx context.Context, sessionID string) (int, error) {
	lines, err := s.Lines(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count, nil
}

// Total sums unit price times quantity over all lines, in base currency.
// Always recomputed from the stored lines, never cached.
func (s *service) Total(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	lines, err := s.Lines(ctx, sessionID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total, nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}

func validProduct(product models.Product) bool {
	if product.ID == uuid.Nil {
		return false
	}
	if strings.TrimSpace(product.Name) == "" {
		return false
	}
	return !product.Price.IsNegative()
}

func indexOf(lines []Line, productID string) int {
	for i := range lines {
		if lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
