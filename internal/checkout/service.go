package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/argentum-atelier/storefront-backend/internal/assets"
	"github.com/argentum-atelier/storefront-backend/internal/cart"
	"github.com/argentum-atelier/storefront-backend/internal/pricefeed"
	"github.com/argentum-atelier/storefront-backend/pkg/db/models"
	"github.com/argentum-atelier/storefront-backend/pkg/enums"
	pkgerrors "github.com/argentum-atelier/storefront-backend/pkg/errors"
	"github.com/argentum-atelier/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Quote is the crypto payment quote for a session's current cart.
type Quote struct {
	AssetSymbol   string             `json:"asset_symbol"`
	AssetName     string             `json:"asset_name"`
	Network       string             `json:"network"`
	Address       string             `json:"address"`
	TotalUSD      decimal.Decimal    `json:"total_usd"`
	Available     bool               `json:"available"`
	Amount        decimal.Decimal    `json:"amount"`
	SpotUSD       decimal.Decimal    `json:"spot_usd"`
	NextRefreshIn int64              `json:"next_refresh_in"` // whole seconds
	State         enums.PaymentState `json:"state"`
}

// Receipt is returned once a transfer completes and the cart is cleared.
type Receipt struct {
	OrderID     string             `json:"order_id"`
	AssetSymbol string             `json:"asset_symbol"`
	Amount      decimal.Decimal    `json:"amount"`
	Address     string             `json:"address"`
	TxRef       string             `json:"tx_ref"`
	State       enums.PaymentState `json:"state"`
}

// Service drives the crypto payment flow: asset selection, live quotes, the
// wallet connection state machine, and transfer submission. The manual
// transfer path never transitions state; the receiving address and network
// ride along on every quote.
type Service interface {
	Session(ctx context.Context, sessionID string) (*PaymentSession, error)
	Quote(ctx context.Context, sessionID, symbol string) (*Quote, error)
	Connect(ctx context.Context, sessionID string) (*PaymentSession, error)
	Disconnect(ctx context.Context, sessionID string) (*PaymentSession, error)
	Submit(ctx context.Context, sessionID string) (*Receipt, error)
	HandleAccountsChanged(ctx context.Context, sessionID string, accounts []string) (*PaymentSession, error)
}

// ServiceParams configure the checkout service. Wallet may be nil: the
// manual transfer path still works, and Connect reports that no provider is
// available.
type ServiceParams struct {
	Logger   *logger.Logger
	Carts    cart.Service
	Assets   assets.Service
	Quotes   *pricefeed.Quotes
	Sessions SessionRepository
	Wallet   WalletProvider
}

type service struct {
	logg     *logger.Logger
	carts    cart.Service
	assets   assets.Service
	quotes   *pricefeed.Quotes
	sessions SessionRepository
	wallet   WalletProvider
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Assets == nil {
		return nil, fmt.Errorf("assets service required")
	}
	if params.Quotes == nil {
		return nil, fmt.Errorf("quote cache required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session repository required")
	}
	return &service{
		logg:     params.Logger,
		carts:    params.Carts,
		assets:   params.Assets,
		quotes:   params.Quotes,
		sessions: params.Sessions,
		wallet:   params.Wallet,
	}, nil
}

// Session returns the current payment state for a session.
func (s *service) Session(ctx context.Context, sessionID string) (*PaymentSession, error) {
	if err := requireSession(sessionID); err != nil {
		return nil, err
	}
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment session")
	}
	return session, nil
}

// Quote selects an asset (the first enabled one when symbol is empty) and
// prices the session's cart total in that asset. A missing or stale-empty
// spot price degrades to Available=false, never an error: the manual path
// must stay usable through a feed outage.
func (s *service) Quote(ctx context.Context, sessionID, symbol string) (*Quote, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	asset, err := s.resolveAsset(ctx, symbol, session)
	if err != nil {
		return nil, err
	}

	if session.AssetSymbol != asset.Symbol || session.State == enums.PaymentStateSelecting {
		session.AssetSymbol = asset.Symbol
		if session.State == enums.PaymentStateSelecting {
			session.State = enums.PaymentStateUnconnected
		}
		if err := s.saveSession(ctx, sessionID, session); err != nil {
			return nil, err
		}
	}

	total, err := s.carts.Total(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	quote := &Quote{
		AssetSymbol:   asset.Symbol,
		AssetName:     asset.Name,
		Network:       asset.Network,
		Address:       asset.Address,
		TotalUSD:      total,
		NextRefreshIn: int64(s.quotes.NextRefreshIn(time.Now()) / time.Second),
		State:         session.State,
	}

	spot, ok := s.quotes.Lookup(asset.PriceID)
	if !ok {
		return quote, nil
	}
	amount, ok := Amount(total, spot)
	if !ok {
		return quote, nil
	}
	quote.Available = true
	quote.Amount = amount
	quote.SpotUSD = spot
	return quote, nil
}

// Connect requests wallet account access. Rejection and provider absence
// leave the session Unconnected.
func (s *service) Connect(ctx context.Context, sessionID string) (*PaymentSession, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already completed")
	}
	if s.wallet == nil {
		return nil, pkgerrors.New(pkgerrors.CodeWallet,
			"no wallet provider is available; use the manual transfer option")
	}

	if _, err := s.resolveAsset(ctx, session.AssetSymbol, session); err != nil {
		return nil, err
	}

	accounts, err := s.wallet.RequestAccounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeWallet, err, "wallet connection was rejected")
	}
	if len(accounts) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeWallet, "wallet returned no accounts")
	}

	session.WalletAddress = accounts[0]
	session.State = enums.PaymentStateConnected
	if err := s.saveSession(ctx, sessionID, session); err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithSessionID(ctx, sessionID), "wallet connected")
	return session, nil
}

// Disconnect drops the wallet connection and returns the flow to Unconnected.
func (s *service) Disconnect(ctx context.Context, sessionID string) (*PaymentSession, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already completed")
	}

	session.WalletAddress = ""
	session.State = enums.PaymentStateUnconnected
	if err := s.saveSession(ctx, sessionID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Submit sends the computed amount to the asset's receiving address through
// the connected wallet. On success the cart is cleared and the session moves
// to Completed; on failure it stays Connected so the shopper can retry.
func (s *service) Submit(ctx context.Context, sessionID string) (*Receipt, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "payment already completed")
	}
	if session.State != enums.PaymentStateConnected {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "connect a wallet before submitting")
	}
	if s.wallet == nil {
		return nil, pkgerrors.New(pkgerrors.CodeWallet,
			"no wallet provider is available; use the manual transfer option")
	}

	asset, err := s.resolveAsset(ctx, session.AssetSymbol, session)
	if err != nil {
		return nil, err
	}

	total, err := s.carts.Total(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	spot, ok := s.quotes.Lookup(asset.PriceID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodePriceFeed,
			fmt.Sprintf("no current price for %s; try again shortly", asset.Symbol))
	}
	amount, ok := Amount(total, spot)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodePriceFeed,
			fmt.Sprintf("no current price for %s; try again shortly", asset.Symbol))
	}

	txRef, err := s.wallet.SendTransfer(ctx, asset.Address, amount.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeWallet, err, "transfer failed; you can retry")
	}

	if err := s.carts.Clear(ctx, sessionID); err != nil {
		return nil, err
	}

	session.State = enums.PaymentStateCompleted
	session.OrderID = uuid.NewString()
	if err := s.saveSession(ctx, sessionID, session); err != nil {
		return nil, err
	}

	orderCtx := s.logg.WithAsset(s.logg.WithSessionID(ctx, sessionID), asset.Symbol)
	orderCtx = s.logg.WithFields(orderCtx, map[string]any{
		"order_id": session.OrderID,
		"tx_ref":   txRef,
	})
	s.logg.Info(orderCtx, "crypto payment completed")

	return &Receipt{
		OrderID:     session.OrderID,
		AssetSymbol: asset.Symbol,
		Amount:      amount,
		Address:     asset.Address,
		TxRef:       txRef,
		State:       session.State,
	}, nil
}

// HandleAccountsChanged mirrors the provider's account-change event. An
// empty account list is an external disconnect; otherwise the active address
// is switched in place.
func (s *service) HandleAccountsChanged(ctx context.Context, sessionID string, accounts []string) (*PaymentSession, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.State != enums.PaymentStateConnected {
		return session, nil
	}

	if len(accounts) == 0 {
		session.WalletAddress = ""
		session.State = enums.PaymentStateUnconnected
	} else {
		session.WalletAddress = accounts[0]
	}
	if err := s.saveSession(ctx, sessionID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// resolveAsset maps a symbol to an enabled asset, defaulting to the first
// enabled one when both the symbol and the session's selection are empty.
func (s *service) resolveAsset(ctx context.Context, symbol string, session *PaymentSession) (*models.CryptoAsset, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" && session != nil {
		symbol = session.AssetSymbol
	}
	if symbol == "" {
		enabled, err := s.assets.ListEnabled(ctx)
		if err != nil {
			return nil, err
		}
		if len(enabled) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no payment assets are enabled")
		}
		return &enabled[0], nil
	}
	return s.assets.GetEnabledBySymbol(ctx, symbol)
}

func (s *service) saveSession(ctx context.Context, sessionID string, session *PaymentSession) error {
	if err := s.sessions.Save(ctx, sessionID, session); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist payment session")
	}
	return nil
}

func requireSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
