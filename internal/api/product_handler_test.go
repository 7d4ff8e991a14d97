package api

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductHandler_Create(t *testing.T) {
	t.Parallel()

	t.Run("required fields", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t)

		res := a.do(t, http.MethodPost, "/api/product", `{"name":"Lamp","price":0}`, a.token(t))
		require.Equal(t, http.StatusCreated, res.Code)

		got := decodeData[ProductResponse](t, res)
		assert.Positive(t, got.ID)
		assert.Equal(t, "Lamp", got.Name)
		assert.Zero(t, got.Price)

		stored, err := a.products.GetByID(context.Background(), got.ID)
		require.NoError(t, err)
		assert.Equal(t, "Lamp", stored.Name)
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "missing price", body: `{"name":"Lamp"}`},
		{name: "missing name", body: `{"price":3.5}`},
		{name: "negative price", body: `{"name":"Lamp","price":-1}`},
		{name: "negative stock", body: `{"name":"Lamp","price":1,"stock":-2}`},
		{name: "blank name", body: `{"name":"   ","price":1}`},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a := newTestAPI(t)

			res := a.do(t, http.MethodPost, "/api/product", tc.body, a.token(t))
			assert.Equal(t, http.StatusUnprocessableEntity, res.Code)

			products, err := a.products.List(context.Background())
			require.NoError(t, err)
			assert.Empty(t, products)
		})
	}

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t, withProductStore(failingProductStore{}))

		res := a.do(t, http.MethodPost, "/api/product", `{"name":"Lamp","price":2}`, a.token(t))
		assert.Equal(t, http.StatusInternalServerError, res.Code)
		assert.Equal(t, "An unexpected error occurred", res.env.Message)
	})
}

func TestProductHandler_GetIsPublic(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	p := a.seedProduct(t, "Lamp", 9.99, 4)

	res := a.do(t, http.MethodGet, "/api/product", "", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, decodeData[[]ProductResponse](t, res), 1)

	res = a.do(t, http.MethodGet, "/api?route=product/"+strconv.FormatInt(p.ID, 10), "", "")
	require.Equal(t, http.StatusOK, res.Code)
	assert.InDelta(t, 9.99, decodeData[ProductResponse](t, res).Price, 0.0001)

	res = a.do(t, http.MethodGet, "/api/product/42", "", "")
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Product not found", res.env.Message)
}

func TestProductHandler_Update(t *testing.T) {
	t.Parallel()

	t.Run("partial update", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t)
		p := a.seedProduct(t, "Lamp", 9.99, 4)

		res := a.do(t, http.MethodPut, "/api/product/"+strconv.FormatInt(p.ID, 10), `{"stock":0}`, a.token(t))
		require.Equal(t, http.StatusOK, res.Code)

		got := decodeData[ProductResponse](t, res)
		assert.Equal(t, 0, got.Stock)
		assert.Equal(t, "Lamp", got.Name)
	})

	t.Run("whitespace name", func(t *testing.T) {
		t.Parallel()
		a := newTestAPI(t)
		p := a.seedProduct(t, "Lamp", 9.99, 4)

		res := a.do(t, http.MethodPut, "/api/product/"+strconv.FormatInt(p.ID, 10), `{"name":"   "}`, a.token(t))
		require.Equal(t, http.StatusUnprocessableEntity, res.Code)

		fields := decodeData[[]shared.FieldError](t, res)
		require.Len(t, fields, 1)
		assert.Equal(t, "name", fields[0].Field)

		stored, err := a.products.GetByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Lamp", stored.Name)
	})

	tests := []struct {
		name   string
		target string
		body   string
		status int
	}{
		{name: "missing id", target: "/api/product", body: `{"stock":1}`, status: http.StatusBadRequest},
		{name: "empty body", target: "/api/product/1", body: ``, status: http.StatusBadRequest},
		{name: "no updatable fields", target: "/api/product/1", body: `{"sku":"x"}`, status: http.StatusBadRequest},
		{name: "negative price", target: "/api/product/1", body: `{"price":-5}`, status: http.StatusUnprocessableEntity},
		{name: "nonexistent id", target: "/api/product/77", body: `{"stock":1}`, status: http.StatusNotFound},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a := newTestAPI(t)
			a.seedProduct(t, "Lamp", 9.99, 4)

			res := a.do(t, http.MethodPut, tc.target, tc.body, a.token(t))
			assert.Equal(t, tc.status, res.Code)
		})
	}
}

func TestProductHandler_DeleteTwice(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	p := a.seedProduct(t, "Lamp", 9.99, 4)
	target := "/api/product/" + strconv.FormatInt(p.ID, 10)

	assert.Equal(t, http.StatusOK, a.do(t, http.MethodDelete, target, "", a.token(t)).Code)
	assert.Equal(t, http.StatusNotFound, a.do(t, http.MethodDelete, target, "", a.token(t)).Code)
}
