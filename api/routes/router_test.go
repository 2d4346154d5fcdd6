package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/argentum-atelier/storefront-backend/api/middleware"
	"github.com/argentum-atelier/storefront-backend/internal/assets"
	"github.com/argentum-atelier/storefront-backend/internal/cart"
	"github.com/argentum-atelier/storefront-backend/internal/catalog"
	checkoutsvc "github.com/argentum-atelier/storefront-backend/internal/checkout"
	"github.com/argentum-atelier/storefront-backend/internal/notifications"
	"github.com/argentum-atelier/storefront-backend/internal/pricefeed"
	"github.com/argentum-atelier/storefront-backend/internal/pricing"
	"github.com/argentum-atelier/storefront-backend/pkg/config"
	"github.com/argentum-atelier/storefront-backend/pkg/db/models"
	"github.com/argentum-atelier/storefront-backend/pkg/logger"
	"github.com/argentum-atelier/storefront-backend/pkg/security"
)

type memoryCartRepo struct {
	carts map[string][]cart.Line
}

func (m *memoryCartRepo) Load(ctx context.Context, sessionID string) ([]cart.Line, error) {
	lines, ok := m.carts[sessionID]
	if !ok {
		return []cart.Line{}, nil
	}
	return lines, nil
}

func (m *memoryCartRepo) Save(ctx context.Context, sessionID string, lines []cart.Line) error {
	m.carts[sessionID] = lines
	return nil
}

func (m *memoryCartRepo) Delete(ctx context.Context, sessionID string) error {
	delete(m.carts, sessionID)
	return nil
}

type memorySessionRepo struct {
	sessions map[string][]byte
}

func (m *memorySessionRepo) Load(ctx context.Context, sessionID string) (*checkoutsvc.PaymentSession, error) {
	raw, ok := m.sessions[sessionID]
	if !ok {
		return &checkoutsvc.PaymentSession{State: "SELECTING"}, nil
	}
	var session checkoutsvc.PaymentSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (m *memorySessionRepo) Save(ctx context.Context, sessionID string, session *checkoutsvc.PaymentSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	m.sessions[sessionID] = raw
	return nil
}

func (m *memorySessionRepo) Delete(ctx context.Context, sessionID string) error {
	delete(m.sessions, sessionID)
	return nil
}

type stubCatalogRepo struct {
	products []models.Product
}

func (s *stubCatalogRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) List(ctx context.Context, filters catalog.ListFilters) ([]models.Product, error) {
	return s.products, nil
}

type stubAssetRepo struct {
	assets []models.CryptoAsset
}

func (s *stubAssetRepo) ListEnabled(ctx context.Context) ([]models.CryptoAsset, error) {
	enabled := make([]models.CryptoAsset, 0, len(s.assets))
	for _, asset := range s.assets {
		if asset.Enabled {
			enabled = append(enabled, asset)
		}
	}
	return enabled, nil
}

func (s *stubAssetRepo) ListAll(ctx context.Context) ([]models.CryptoAsset, error) {
	return s.assets, nil
}

func (s *stubAssetRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.CryptoAsset, error) {
	for i := range s.assets {
		if s.assets[i].ID == id {
			return &s.assets[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAssetRepo) FindBySymbol(ctx context.Context, symbol string) (*models.CryptoAsset, error) {
	for i := range s.assets {
		if s.assets[i].Symbol == symbol {
			return &s.assets[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubAssetRepo) Create(ctx context.Context, asset *models.CryptoAsset) (*models.CryptoAsset, error) {
	if asset.ID == uuid.Nil {
		asset.ID = uuid.New()
	}
	s.assets = append(s.assets, *asset)
	return asset, nil
}

func (s *stubAssetRepo) Update(ctx context.Context, asset *models.CryptoAsset) (*models.CryptoAsset, error) {
	for i := range s.assets {
		if s.assets[i].ID == asset.ID {
			s.assets[i] = *asset
			return asset, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type routerFixture struct {
	handler   http.Handler
	productID uuid.UUID
	quotes    *pricefeed.Quotes
	password  string
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	password := "sterling-keeper"

	passwordCfg := config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	hash, err := security.HashPassword(password, passwordCfg)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "argentum-test",
			ExpirationMinutes: 60,
		},
		Password: passwordCfg,
		Admin:    config.AdminConfig{PasswordHash: hash},
	}

	converter, err := pricing.NewConverterFromString("58000")
	if err != nil {
		t.Fatalf("NewConverterFromString: %v", err)
	}

	productID := uuid.New()
	catalogSvc, err := catalog.NewService(&stubCatalogRepo{products: []models.Product{
		{
			ID:    productID,
			Name:  "Georgian Tea Service",
			Price: decimal.NewFromInt(450),
		},
	}}, converter)
	if err != nil {
		t.Fatalf("catalog.NewService: %v", err)
	}

	cartSvc, err := cart.NewService(&memoryCartRepo{carts: map[string][]cart.Line{}}, notifications.NopNotifier{})
	if err != nil {
		t.Fatalf("cart.NewService: %v", err)
	}

	assetSvc, err := assets.NewService(&stubAssetRepo{assets: []models.CryptoAsset{
		{
			ID:      uuid.New(),
			Symbol:  "BTC",
			Name:    "Bitcoin",
			Network: "Bitcoin Mainnet",
			Address: "bc1q-argentum-receiving",
			PriceID: "bitcoin",
			Enabled: true,
		},
	}})
	if err != nil {
		t.Fatalf("assets.NewService: %v", err)
	}

	quotes := pricefeed.NewQuotes(30 * time.Second)
	checkoutSvc, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Logger:   logg,
		Carts:    cartSvc,
		Assets:   assetSvc,
		Quotes:   quotes,
		Sessions: &memorySessionRepo{sessions: map[string][]byte{}},
		Wallet:   checkoutsvc.NewSimulatedWallet(time.Millisecond, "0xdemo"),
	})
	if err != nil {
		t.Fatalf("checkout.NewService: %v", err)
	}

	handler := NewRouter(Deps{
		Config:    cfg,
		Logger:    logg,
		Converter: converter,
		Catalog:   catalogSvc,
		Cart:      cartSvc,
		Assets:    assetSvc,
		Checkout:  checkoutSvc,
	})

	return &routerFixture{
		handler:   handler,
		productID: productID,
		quotes:    quotes,
		password:  password,
	}
}

func (f *routerFixture) do(t *testing.T, method, path, sessionID, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set(middleware.SessionIDHeader, sessionID)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func TestCartFlowThroughRouter(t *testing.T) {
	t.Parallel()

	fix := newRouterFixture(t)
	sessionID := uuid.NewString()
	addBody := `{"product_id":"` + fix.productID.String() + `","quantity":1}`

	rec := fix.do(t, http.MethodPost, "/api/v1/cart/items", sessionID, "", addBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add item: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if echoed := rec.Header().Get(middleware.SessionIDHeader); echoed != sessionID {
		t.Fatalf("expected session id echoed, got %q", echoed)
	}

	addBody = `{"product_id":"` + fix.productID.String() + `","quantity":2}`
	rec = fix.do(t, http.MethodPost, "/api/v1/cart/items", sessionID, "", addBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("merge item: expected 201, got %d", rec.Code)
	}

	var view struct {
		Lines []struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		} `json:"lines"`
		ItemCount int    `json:"item_count"`
		Total     string `json:"total"`
	}
	decodeData(t, rec, &view)
	if len(view.Lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(view.Lines))
	}
	if view.Lines[0].Quantity != 3 || view.ItemCount != 3 {
		t.Fatalf("expected quantity 3, got line=%d count=%d", view.Lines[0].Quantity, view.ItemCount)
	}
	if view.Total != "1350" {
		t.Fatalf("expected total 1350, got %s", view.Total)
	}

	rec = fix.do(t, http.MethodPatch, "/api/v1/cart/items/"+fix.productID.String(), sessionID, "", `{"quantity":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update quantity: expected 200, got %d", rec.Code)
	}
	decodeData(t, rec, &view)
	if len(view.Lines) != 0 {
		t.Fatalf("quantity 0 must delete the line, got %d lines", len(view.Lines))
	}
}

func TestPricingFormatEndpoint(t *testing.T) {
	t.Parallel()

	fix := newRouterFixture(t)

	rec := fix.do(t, http.MethodGet, "/api/v1/pricing/format?price=100&currency=TOMAN", "", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Formatted string `json:"formatted"`
		Amount    string `json:"amount"`
	}
	decodeData(t, rec, &payload)
	if payload.Formatted != "5,800,000 Toman" {
		t.Fatalf("expected 5,800,000 Toman, got %q", payload.Formatted)
	}
	if payload.Amount != "5800000" {
		t.Fatalf("expected amount 5800000, got %q", payload.Amount)
	}
}

func TestCheckoutFlowThroughRouter(t *testing.T) {
	t.Parallel()

	fix := newRouterFixture(t)
	sessionID := uuid.NewString()
	fix.quotes.Replace(map[string]float64{"bitcoin": 60000}, time.Now())

	addBody := `{"product_id":"` + fix.productID.String() + `","quantity":1}`
	if rec := fix.do(t, http.MethodPost, "/api/v1/cart/items", sessionID, "", addBody); rec.Code != http.StatusCreated {
		t.Fatalf("seed cart: expected 201, got %d", rec.Code)
	}

	rec := fix.do(t, http.MethodGet, "/api/v1/checkout/quote?asset=BTC", sessionID, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("quote: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var quote struct {
		Available bool   `json:"available"`
		Amount    string `json:"amount"`
		State     string `json:"state"`
	}
	decodeData(t, rec, &quote)
	if !quote.Available {
		t.Fatal("expected an available quote")
	}
	if quote.Amount != "0.0075" {
		t.Fatalf("expected 450/60000=0.0075, got %s", quote.Amount)
	}

	rec = fix.do(t, http.MethodPost, "/api/v1/checkout/connect", sessionID, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("connect: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = fix.do(t, http.MethodPost, "/api/v1/checkout/submit", sessionID, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var receipt struct {
		OrderID string `json:"order_id"`
		State   string `json:"state"`
	}
	decodeData(t, rec, &receipt)
	if receipt.OrderID == "" || receipt.State != "COMPLETED" {
		t.Fatalf("expected completed receipt, got %+v", receipt)
	}

	rec = fix.do(t, http.MethodGet, "/api/v1/cart", sessionID, "", "")
	var view struct {
		ItemCount int `json:"item_count"`
	}
	decodeData(t, rec, &view)
	if view.ItemCount != 0 {
		t.Fatalf("cart must be cleared after completion, got %d items", view.ItemCount)
	}
}

func TestAdminSurfaceRequiresToken(t *testing.T) {
	t.Parallel()

	fix := newRouterFixture(t)

	rec := fix.do(t, http.MethodGet, "/api/v1/admin/assets", "", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = fix.do(t, http.MethodPost, "/api/v1/admin/login", "", "", `{"password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rec.Code)
	}

	rec = fix.do(t, http.MethodPost, "/api/v1/admin/login", "", "", `{"password":"`+fix.password+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	decodeData(t, rec, &login)
	if login.Token == "" {
		t.Fatal("expected a token")
	}

	assetBody := `{"symbol":"eth","name":"Ethereum","network":"Ethereum Mainnet","address":"0x-receiving","price_id":"Ethereum","enabled":true}`
	rec = fix.do(t, http.MethodPost, "/api/v1/admin/assets", "", login.Token, assetBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create asset: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Symbol  string `json:"symbol"`
		PriceID string `json:"price_id"`
	}
	decodeData(t, rec, &created)
	if created.Symbol != "ETH" {
		t.Fatalf("expected normalized symbol ETH, got %q", created.Symbol)
	}
	if created.PriceID != "ethereum" {
		t.Fatalf("expected normalized price id ethereum, got %q", created.PriceID)
	}
}
