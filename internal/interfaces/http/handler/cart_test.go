package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemForm(productID uint, qty int) url.Values {
	return url.Values{"product_id": {strconv.FormatUint(uint64(productID), 10)}, "product_qty": {strconv.Itoa(qty)}}
}

func cartQty(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp cartapp.CountResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Quantity
}

func apiError(t *testing.T, w *httptest.ResponseRecorder) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestCartHandler_Mutations(t *testing.T) {
	app := newTestApp(t)
	kettle := app.seedProduct(t, "Kettle", "", "20.00", 1)
	mug := app.seedProduct(t, "Mug", "", "5.00", 1)
	c := app.newClient(t)

	tests := []struct {
		name    string
		path    string
		form    url.Values
		wantQty int
	}{
		{"add kettle", "/cart/add", itemForm(kettle.ID, 2), 2},
		{"add mug", "/cart/add", itemForm(mug.ID, 1), 3},
		{"add again overwrites", "/cart/add", itemForm(kettle.ID, 1), 2},
		{"update", "/cart/update", itemForm(mug.ID, 4), 5},
		{"delete", "/cart/delete", url.Values{"product_id": {strconv.Itoa(int(kettle.ID))}}, 4},
		{"delete missing is a no-op", "/cart/delete", url.Values{"product_id": {"999"}}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := c.postForm(tt.path, tt.form)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.wantQty, cartQty(t, w))
		})
	}

	_, page := c.getJSON("/")
	assert.Equal(t, 4, page.CartQuantity)
	assert.Equal(t, 3, int(app.counter(t, "shop_cart_mutations_total", CartOpAdd)))
}

func TestCartHandler_Errors(t *testing.T) {
	app := newTestApp(t)
	kettle := app.seedProduct(t, "Kettle", "", "20.00", 1)
	c := app.newClient(t)

	tests := []struct {
		name       string
		path       string
		form       url.Values
		wantStatus int
		wantCode   string
	}{
		{"unknown product", "/cart/add", itemForm(999, 1), http.StatusNotFound, dto.ErrCodeNotFound},
		{"zero quantity", "/cart/add", itemForm(kettle.ID, 0), http.StatusUnprocessableEntity, dto.ErrCodeInvalidQuantity},
		{"negative quantity", "/cart/update", itemForm(kettle.ID, -2), http.StatusUnprocessableEntity, dto.ErrCodeInvalidQuantity},
		{"missing product id", "/cart/add", url.Values{"product_qty": {"1"}}, http.StatusUnprocessableEntity, dto.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := c.postForm(tt.path, tt.form)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, apiError(t, w).Code)
		})
	}

	_, page := c.getJSON("/")
	assert.Zero(t, page.CartQuantity)
}

func TestCartHandler_PersistsSnapshotForUsers(t *testing.T) {
	app := newTestApp(t)
	kettle := app.seedProduct(t, "Kettle", "", "20.00", 1)
	user := app.seedUser(t, "kim", false)
	c := app.newClient(t)
	c.login("kim")

	w := c.postForm("/cart/add", itemForm(kettle.ID, 3))
	require.Equal(t, http.StatusOK, w.Code)
	snapshot := app.oldCart(t, user.ID)
	require.NotNil(t, snapshot)
	assert.JSONEq(t, fmt.Sprintf(`{"%d":3}`, kettle.ID), *snapshot)

	w = c.postForm("/cart/delete", url.Values{"product_id": {strconv.Itoa(int(kettle.ID))}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, app.oldCart(t, user.ID), "an empty cart clears the snapshot")
}

func TestCartHandler_SnapshotTooLarge(t *testing.T) {
	app := newTestApp(t)
	app.seedUser(t, "lee", false)
	c := app.newClient(t)
	c.login("lee")

	var last *httptest.ResponseRecorder
	accepted := 0
	for i := 0; i < 30; i++ {
		p := app.seedProduct(t, "Item "+strconv.Itoa(i), "", "1.00", 1)
		last = c.postForm("/cart/add", itemForm(p.ID, 100))
		if last.Code != http.StatusOK {
			break
		}
		accepted++
	}
	require.Equal(t, http.StatusUnprocessableEntity, last.Code)
	assert.Equal(t, dto.ErrCodeCartTooLarge, apiError(t, last).Code)

	_, page := c.getJSON("/")
	assert.Equal(t, accepted*100, page.CartQuantity, "the rejected item is not in the session cart")
}

func TestCartHandler_Summary(t *testing.T) {
	app := newTestApp(t)
	kettle := app.seedProduct(t, "Kettle", "", "20.00", 1)
	lamp := app.seedProduct(t, "Lamp", "", "40.00", 1)
	require.NoError(t, lamp.PutOnSale(decimal.RequireFromString("30.00")))
	require.NoError(t, app.products.Save(context.Background(), lamp))

	c := app.newClient(t)
	c.postForm("/cart/add", itemForm(kettle.ID, 2))
	c.postForm("/cart/add", itemForm(lamp.ID, 1))

	w, page := c.getJSON("/cart")
	require.Equal(t, http.StatusOK, w.Code)
	var summary cartapp.Summary
	pageData(t, page, &summary)
	require.Len(t, summary.Lines, 2)
	assert.Equal(t, 3, summary.TotalQuantity)
	assert.True(t, decimal.RequireFromString("70.00").Equal(summary.Total), summary.Total.String())

	html := c.getHTML("/cart")
	require.Equal(t, http.StatusOK, html.Code)
	assert.Contains(t, html.Body.String(), "$70.00")
}

func TestCartHandler_EmptySummary(t *testing.T) {
	app := newTestApp(t)
	c := app.newClient(t)

	_, page := c.getJSON("/cart")
	var summary cartapp.Summary
	pageData(t, page, &summary)
	assert.Empty(t, summary.Lines)
	assert.True(t, summary.Total.IsZero())
}
