package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/storefront-api/internal/config"
	"github.com/phrazzld/storefront-api/internal/domain"
	"github.com/phrazzld/storefront-api/internal/platform/logger"
	"github.com/phrazzld/storefront-api/internal/service/auth"
	"github.com/phrazzld/storefront-api/internal/store"
	"github.com/phrazzld/storefront-api/internal/store/memstore"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

// testAPI wires a dispatcher to in-memory stores.
type testAPI struct {
	handler  http.Handler
	users    store.UserStore
	products store.ProductStore
	tokens   *auth.TokenService
	hasher   *auth.BcryptHasher
	logs     *logger.LogBuffer
}

type apiOption func(*apiDeps)

type apiDeps struct {
	users    store.UserStore
	products store.ProductStore
}

func withUserStore(s store.UserStore) apiOption {
	return func(d *apiDeps) { d.users = s }
}

func withProductStore(s store.ProductStore) apiOption {
	return func(d *apiDeps) { d.products = s }
}

func newTestAPI(t *testing.T, opts ...apiOption) *testAPI {
	t.Helper()

	deps := apiDeps{users: memstore.NewUserStore(), products: memstore.NewProductStore()}
	for _, opt := range opts {
		opt(&deps)
	}

	log, buf := logger.NewBufferLogger()
	tokens, err := auth.NewTokenService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeSeconds: 3600})
	require.NoError(t, err)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	d, err := NewDispatcher(DefaultRoutes(), map[string]ResourceHandler{
		ResourceUser:    NewUserHandler(deps.users, hasher, log),
		ResourceProduct: NewProductHandler(deps.products, log),
		ResourceLogin:   NewLoginHandler(deps.users, hasher, tokens, log),
	}, tokens, log)
	require.NoError(t, err)

	return &testAPI{
		handler:  d,
		users:    deps.users,
		products: deps.products,
		tokens:   tokens,
		hasher:   hasher,
		logs:     buf,
	}
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type response struct {
	*httptest.ResponseRecorder
	env envelope
}

func (a *testAPI) do(t *testing.T, method, target, body, token string) response {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	return response{ResponseRecorder: rec, env: env}
}

func (a *testAPI) token(t *testing.T) string {
	t.Helper()
	token, err := a.tokens.Issue(context.Background(), map[string]any{"user_id": 1})
	require.NoError(t, err)
	return token
}

func (a *testAPI) seedUser(t *testing.T, name, email, password string) *domain.User {
	t.Helper()
	hash, err := a.hasher.Hash(password)
	require.NoError(t, err)
	u, err := domain.NewUser(name, email, hash)
	require.NoError(t, err)
	require.NoError(t, a.users.Create(context.Background(), u))
	return u
}

func (a *testAPI) seedProduct(t *testing.T, name string, price float64, stock int) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct(name, "", price, stock)
	require.NoError(t, err)
	require.NoError(t, a.products.Create(context.Background(), p))
	return p
}

func decodeData[T any](t *testing.T, res response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(res.env.Data, &v), "data: %s", string(res.env.Data))
	return v
}

func hasData(res response) bool {
	return len(res.env.Data) > 0 && !strings.EqualFold(string(res.env.Data), "null")
}

var errStoreDown = errors.New("connection refused: postgres://admin:hunter2@db:5432/shop")

// failingUserStore fails every call with errStoreDown.
type failingUserStore struct{}

func (failingUserStore) Create(context.Context, *domain.User) error { return errStoreDown }
func (failingUserStore) GetByID(context.Context, int64) (*domain.User, error) {
	return nil, errStoreDown
}
func (failingUserStore) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, errStoreDown
}
func (failingUserStore) List(context.Context) ([]*domain.User, error) { return nil, errStoreDown }
func (failingUserStore) Update(context.Context, int64, domain.UserUpdate) (*domain.User, error) {
	return nil, errStoreDown
}
func (failingUserStore) Delete(context.Context, int64) error { return errStoreDown }

// failingProductStore fails every call with errStoreDown.
type failingProductStore struct{}

func (failingProductStore) Create(context.Context, *domain.Product) error { return errStoreDown }
func (failingProductStore) GetByID(context.Context, int64) (*domain.Product, error) {
	return nil, errStoreDown
}
func (failingProductStore) List(context.Context) ([]*domain.Product, error) {
	return nil, errStoreDown
}
func (failingProductStore) Update(context.Context, int64, domain.ProductUpdate) (*domain.Product, error) {
	return nil, errStoreDown
}
func (failingProductStore) Delete(context.Context, int64) error { return errStoreDown }
