package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/restaurant-storefront/internal/delivery"
	"github.com/Cheertaboi/restaurant-storefront/internal/models"
	"github.com/Cheertaboi/restaurant-storefront/internal/notify"
	"github.com/Cheertaboi/restaurant-storefront/internal/service"
)

// fake services for tests

type fakeCoupons struct {
	eval     models.Evaluation
	err      error
	applyErr error
	created  models.Coupon
	gotCode  string
	gotOrder models.OrderContext
	gotApply [2]string
}

func (f *fakeCoupons) Validate(ctx context.Context, code string, order models.OrderContext) (models.Evaluation, error) {
	f.gotCode, f.gotOrder = code, order
	return f.eval, f.err
}

func (f *fakeCoupons) Apply(ctx context.Context, couponID, userID string) error {
	f.gotApply = [2]string{couponID, userID}
	return f.applyErr
}

func (f *fakeCoupons) Create(ctx context.Context, c models.Coupon) (string, error) {
	f.created = c
	return "id-1", f.err
}

type fakeDelivery struct {
	fee  delivery.Fee
	dest models.Coordinate
	err  error
}

func (f *fakeDelivery) QuoteCoordinates(dest models.Coordinate) (delivery.Fee, error) {
	return f.fee, f.err
}

func (f *fakeDelivery) QuoteAddress(ctx context.Context, address string) (delivery.Fee, models.Coordinate, error) {
	return f.fee, f.dest, f.err
}

type fakeNotifier struct {
	err   error
	order models.OrderSummary
}

func (f *fakeNotifier) NotifyStatus(ctx context.Context, order models.OrderSummary, status string) (notify.EmailJob, error) {
	f.order = order
	return notify.EmailJob{ID: "job-1", Status: status}, f.err
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func couponRouter(f *fakeCoupons) http.Handler {
	h := NewCouponHandler(f)
	r := chi.NewRouter()
	r.Post("/cupons/validar", h.ValidateCoupon)
	r.Post("/cupons/{id}/aplicar", h.ApplyCoupon)
	r.Post("/admin/cupons", h.CreateCoupon)
	return r
}

func TestValidateCoupon_Rejected(t *testing.T) {
	f := &fakeCoupons{eval: models.Evaluation{Valid: false, Reasons: []string{"Cupom inativo", "Cupom expirado"}}}

	rr := do(t, couponRouter(f), http.MethodPost, "/cupons/validar",
		`{"codigo":"bemvindo","usuario_id":" u-1 ","valor_pedido":42.5,"quantidade_itens":3}`)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "bemvindo", f.gotCode)
	assert.Equal(t, models.OrderContext{UserID: "u-1", OrderTotal: 42.5, ItemCount: 3}, f.gotOrder)

	var got struct {
		Valid   bool     `json:"valido"`
		Reasons []string `json:"motivos"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.False(t, got.Valid)
	assert.Equal(t, []string{"Cupom inativo", "Cupom expirado"}, got.Reasons)
}

func TestValidateCoupon_Accepted(t *testing.T) {
	remaining := 4
	f := &fakeCoupons{eval: models.Evaluation{Valid: true, Coupon: &models.AcceptedCoupon{
		ID: "c-1", Code: "FRETE", Kind: models.KindFreeShipping, Description: "Frete grátis", RemainingTotal: &remaining,
	}}}

	rr := do(t, couponRouter(f), http.MethodPost, "/cupons/validar", `{"codigo":"FRETE","valor_pedido":10}`)

	require.Equal(t, http.StatusOK, rr.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, true, got["valido"])
	cupom := got["cupom"].(map[string]any)
	assert.Equal(t, "Frete grátis", cupom["descricao"])
	assert.Equal(t, float64(4), cupom["usos_restantes"])
	assert.Nil(t, cupom["usos_restantes_usuario"])
}

func TestValidateCoupon_Errors(t *testing.T) {
	rr := do(t, couponRouter(&fakeCoupons{}), http.MethodPost, "/cupons/validar", `{`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, couponRouter(&fakeCoupons{}), http.MethodPost, "/cupons/validar", `{"codigo":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, couponRouter(&fakeCoupons{err: service.ErrCouponNotFound}), http.MethodPost, "/cupons/validar", `{"codigo":"X"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "cupom_nao_encontrado")

	rr = do(t, couponRouter(&fakeCoupons{err: errors.New("db down")}), http.MethodPost, "/cupons/validar", `{"codigo":"X"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestApplyCoupon(t *testing.T) {
	f := &fakeCoupons{}
	rr := do(t, couponRouter(f), http.MethodPost, "/cupons/c-9/aplicar", `{"usuario_id":"u-2"}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, [2]string{"c-9", "u-2"}, f.gotApply)

	rr = do(t, couponRouter(f), http.MethodPost, "/cupons/c-9/aplicar", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, [2]string{"c-9", ""}, f.gotApply)

	cases := map[error]int{
		service.ErrCouponExhausted:  http.StatusConflict,
		service.ErrUserLimitReached: http.StatusConflict,
		service.ErrCouponNotFound:   http.StatusNotFound,
		errors.New("boom"):          http.StatusInternalServerError,
	}
	for err, code := range cases {
		rr := do(t, couponRouter(&fakeCoupons{applyErr: err}), http.MethodPost, "/cupons/c-9/aplicar", "")
		assert.Equal(t, code, rr.Code, err.Error())
	}
}

func TestCreateCoupon(t *testing.T) {
	f := &fakeCoupons{}
	rr := do(t, couponRouter(f), http.MethodPost, "/admin/cupons",
		`{"codigo":"leve3","tipo":"item_gratis","data_expiracao":"2026-12-31","quantidade_minima":3,"limite_total":50}`)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "id-1")
	assert.Equal(t, models.KindFreeItem, f.created.Kind)
	assert.True(t, f.created.Active)
	require.NotNil(t, f.created.ExpiresOn)
	assert.Equal(t, "2026-12-31", f.created.ExpiresOn.Format("2006-01-02"))
	require.NotNil(t, f.created.MinItems)
	assert.Equal(t, 3, *f.created.MinItems)

	rr = do(t, couponRouter(f), http.MethodPost, "/admin/cupons", `{"codigo":"x","tipo":"frete_gratis","data_expiracao":"31/12/2026"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, couponRouter(&fakeCoupons{err: service.ErrDuplicateCode}), http.MethodPost, "/admin/cupons", `{"codigo":"x","tipo":"frete_gratis"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = do(t, couponRouter(&fakeCoupons{err: service.ErrInvalidCoupon}), http.MethodPost, "/admin/cupons", `{"codigo":"x","tipo":"?"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestQuoteFee(t *testing.T) {
	f := &fakeDelivery{fee: delivery.Fee{Available: true, Amount: 11, DistanceKm: 2.1234}}
	h := http.HandlerFunc(NewDeliveryHandler(f).QuoteFee)

	rr := do(t, h, http.MethodPost, "/entrega/taxa", `{"lat":-23.55,"lng":-46.63}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var got FeeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.True(t, got.Available)
	assert.Equal(t, 11.0, got.Fee)
	assert.Equal(t, "R$ 11,00", got.FeeFormatted)
	assert.Equal(t, 2.12, got.DistanceKm)
	assert.Equal(t, models.Coordinate{Lat: -23.55, Lng: -46.63}, got.Destination)
}

func TestQuoteFee_OutOfRangeIsNotAnError(t *testing.T) {
	f := &fakeDelivery{fee: delivery.Fee{Available: false, DistanceKm: 31}, dest: models.Coordinate{Lat: 1, Lng: 1}}
	h := http.HandlerFunc(NewDeliveryHandler(f).QuoteFee)

	rr := do(t, h, http.MethodPost, "/entrega/taxa", `{"endereco":"Campinas"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var got FeeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.False(t, got.Available)
	assert.Zero(t, got.Fee)
	assert.Empty(t, got.FeeFormatted)
	assert.NotEmpty(t, got.Message)
}

func TestQuoteFee_Errors(t *testing.T) {
	cases := []struct {
		body string
		err  error
		code int
	}{
		{`{}`, nil, http.StatusBadRequest},
		{`not json`, nil, http.StatusBadRequest},
		{`{"lat":100,"lng":0}`, service.ErrInvalidCoordinate, http.StatusBadRequest},
		{`{"endereco":"??"}`, service.ErrAddressNotFound, http.StatusUnprocessableEntity},
		{`{"endereco":"Rua A"}`, errors.New("timeout"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		h := http.HandlerFunc(NewDeliveryHandler(&fakeDelivery{err: tc.err}).QuoteFee)
		rr := do(t, h, http.MethodPost, "/entrega/taxa", tc.body)
		assert.Equal(t, tc.code, rr.Code, tc.body)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := &fakeNotifier{}
	r := chi.NewRouter()
	r.Post("/pedidos/{id}/status", NewOrderHandler(f).UpdateStatus)

	rr := do(t, r, http.MethodPost, "/pedidos/88/status", `{"status":"preparando","email":"a@b.com","nome":"Bia","total":30}`)
	require.Equal(t, http.StatusAccepted, rr.Code)
	assert.Contains(t, rr.Body.String(), "job-1")
	assert.Equal(t, models.OrderSummary{ID: "88", CustomerName: "Bia", CustomerEmail: "a@b.com", Total: 30}, f.order)

	f.err = notify.ErrUnknownStatus
	rr = do(t, r, http.MethodPost, "/pedidos/88/status", `{"status":"?"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	f.err = service.ErrMissingRecipient
	rr = do(t, r, http.MethodPost, "/pedidos/88/status", `{"status":"preparando"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	f.err = errors.New("broker gone")
	rr = do(t, r, http.MethodPost, "/pedidos/88/status", `{"status":"preparando","email":"a@b.com"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
