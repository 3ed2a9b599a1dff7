package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/buybuddy-backend/pkg/errors"
)

type checkoutBody struct {
	AddressID     string `json:"address" validate:"required,uuid"`
	PaymentMethod string `json:"payment_method" validate:"required,payment_method"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/checkout/", strings.NewReader(`{"address":"`+id+`","payment_method":"UPI"}`))

	var body checkoutBody
	require.NoError(t, DecodeJSONBody(req, &body))
	assert.Equal(t, id, body.AddressID)
	assert.Equal(t, "UPI", body.PaymentMethod)
}

func TestDecodeJSONBodyFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/checkout/", strings.NewReader(`{"address":"nope","payment_method":"BITCOIN"}`))

	var body checkoutBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be a valid id", details["address"])
	assert.Equal(t, "must be one of [COD CARD UPI NETBANK]", details["payment_method"])
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/checkout/", strings.NewReader(`{"address":"x","payment_method":"COD","coupon":"FREE"}`))

	var body checkoutBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParsePriceRange(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/search/?price=100-500.50", nil)
	rng, err := ParsePriceRange(req, "price")
	require.NoError(t, err)
	require.NotNil(t, rng)
	assert.Equal(t, "100", rng.Min.String())
	assert.Equal(t, "500.5", rng.Max.String())

	empty := httptest.NewRequest(http.MethodGet, "/search/", nil)
	rng, err = ParsePriceRange(empty, "price")
	require.NoError(t, err)
	assert.Nil(t, rng)

	for _, raw := range []string{"abc", "500-100", "10", "-5-10"} {
		bad := httptest.NewRequest(http.MethodGet, "/search/?price="+raw, nil)
		_, err := ParsePriceRange(bad, "price")
		assert.Error(t, err, raw)
	}
}

func TestQueryText(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/search/?q=%20%20caf%C3%A9%20mug%20", nil)
	assert.Equal(t, "café mug", QueryText(req, "q", 0))
	assert.Equal(t, "café", QueryText(req, "q", 5))
	assert.Equal(t, "caf", QueryText(req, "q", 3))
	assert.Empty(t, QueryText(req, "missing", 10))
}

func TestParseQueryUUID(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/search/?category="+id.String(), nil)
	got, err := ParseQueryUUID(req, "category")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, *got)

	bad := httptest.NewRequest(http.MethodGet, "/search/?category=shoes", nil)
	_, err = ParseQueryUUID(bad, "category")
	assert.Error(t, err)
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/order/"+id.String()+"/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orderID", id.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	got, err := ParseUUIDParam(req, "orderID")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ParseUUIDParam(req, "missing")
	assert.Error(t, err)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	for _, raw := range []string{"", "Basic abc", "Bearer ", "bearer"} {
		_, err := ExtractBearerToken(raw)
		assert.ErrorIs(t, err, ErrInvalidToken, raw)
	}
}
