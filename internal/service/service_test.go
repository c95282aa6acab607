package service

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

type testEnv struct {
	store    *sqlite.SQLiteStore
	jwt      *auth.JWTManager
	payment  *PaymentService
	auth     *apiconnect.AuthServiceClient
	bills    *apiconnect.BillServiceClient
	ledger   *apiconnect.LedgerServiceClient
	payments *apiconnect.PaymentServiceClient
}

type envConfig struct {
	wrap      func(storage.Store) storage.Store
	ledger    LedgerOptions
	draftIdle time.Duration
}

type envOption func(*envConfig)

func withStore(wrap func(storage.Store) storage.Store) envOption {
	return func(c *envConfig) { c.wrap = wrap }
}

func withLedgerOptions(opts LedgerOptions) envOption {
	return func(c *envConfig) { c.ledger = opts }
}

func withDraftIdle(d time.Duration) envOption {
	return func(c *envConfig) { c.draftIdle = d }
}

// newTestEnv serves every service over httptest backed by a fresh SQLite
// database, with the same interceptors as the server.
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	cfg := envConfig{ledger: DefaultLedgerOptions()}
	for _, o := range opts {
		o(&cfg)
	}

	store, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	var backend storage.Store = store
	if cfg.wrap != nil {
		backend = cfg.wrap(store)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	interceptors := connect.WithInterceptors(
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(),
	)

	loader := NewLedgerLoader(backend, cfg.ledger)
	paymentSvc := NewPaymentService(backend, loader, cfg.draftIdle)
	authn := auth.NewPasswordAuthenticator(backend).WithCost(bcrypt.MinCost)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authn, jwtManager, slog.Default()), interceptors))
	mux.Handle(apiconnect.NewBillServiceHandler(NewBillService(backend), interceptors))
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(loader), interceptors))
	mux.Handle(apiconnect.NewPaymentServiceHandler(paymentSvc, interceptors))
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		store:    store,
		jwt:      jwtManager,
		payment:  paymentSvc,
		auth:     apiconnect.NewAuthServiceClient(server.Client(), server.URL),
		bills:    apiconnect.NewBillServiceClient(server.Client(), server.URL),
		ledger:   apiconnect.NewLedgerServiceClient(server.Client(), server.URL),
		payments: apiconnect.NewPaymentServiceClient(server.Client(), server.URL),
	}
}

// token mints a session for a user that only exists in the token.
func (e *testEnv) token(t *testing.T, userID string) string {
	t.Helper()
	token, _, err := e.jwt.Generate(&models.User{ID: userID, Email: userID + "@example.com"})
	require.NoError(t, err)
	return token
}

// as wraps msg in a request authenticated with token. An empty token makes
// a guest request.
func as[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

func requireCode(t *testing.T, err error, code connect.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, connect.CodeOf(err), "unexpected error: %v", err)
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func item(name, price string, participants ...string) api.ItemInput {
	return api.ItemInput{Name: name, UnitPrice: d(price), Participants: participants}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, d(want).Equal(got), "want %s, got %s", want, got)
}

// near compares decimals that went through a non-terminating division.
func requireNear(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, d(want).Sub(got).Abs().LessThan(d("0.000001")), "want ~%s, got %s", want, got)
}

func (e *testEnv) createBill(t *testing.T, token string, req *api.CreateBillRequest) api.BillDetail {
	t.Helper()
	resp, err := e.bills.CreateBill(context.Background(), as(token, req))
	require.NoError(t, err)
	return resp.Msg.Bill
}
