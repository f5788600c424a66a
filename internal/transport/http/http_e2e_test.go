package rest_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
	"github.com/Gunvolt24/rocketshoes_cart/internal/inventory"
	"github.com/Gunvolt24/rocketshoes_cart/internal/notify"
	"github.com/Gunvolt24/rocketshoes_cart/internal/repo/memory"
	"github.com/Gunvolt24/rocketshoes_cart/internal/testutil"
	rest "github.com/Gunvolt24/rocketshoes_cart/internal/transport/http"
	"github.com/Gunvolt24/rocketshoes_cart/internal/usecase"
	"github.com/Gunvolt24/rocketshoes_cart/pkg/validate"
)

// Полный пайплайн без контейнеров: HTTP → CartStore → фейковый склад + слот в памяти.
func newE2E(t *testing.T) (*testutil.InventoryServer, *memory.SlotStore, http.Handler) {
	t.Helper()

	inv := testutil.NewInventoryServer()
	t.Cleanup(inv.Close)

	client, err := inventory.NewClient(inv.URL, 2*time.Second, noopLogger{})
	require.NoError(t, err)

	slots := memory.NewSlotStore()
	store, err := usecase.NewCartStore(context.Background(), slots, client,
		notify.NewLogNotifier(noopLogger{}), noopLogger{}, validate.NewCartValidator(), "")
	require.NoError(t, err)

	h := rest.NewHandler(store, noopLogger{}, 2*time.Second)
	return inv, slots, rest.NewRouter(h, "", "")
}

func TestE2E_Scenario(t *testing.T) {
	inv, slots, r := newE2E(t)
	inv.Put(1, 10)

	expectAmount := func(w *httptest.ResponseRecorder, want int) {
		t.Helper()
		require.Equal(t, http.StatusOK, w.Code, "body=%s", w.Body.String())
		cart := decodeCart(t, w)
		if want == 0 {
			require.Empty(t, cart)
			return
		}
		require.Len(t, cart, 1)
		require.Equal(t, int64(1), cart[0].ID)
		require.Equal(t, want, cart[0].Amount)
	}

	expectAmount(serve(r, http.MethodPost, "/cart/products/1", ""), 1)
	expectAmount(serve(r, http.MethodPost, "/cart/products/1", ""), 2)
	expectAmount(serve(r, http.MethodPatch, "/cart/products/1", `{"amount":5}`), 5)
	expectAmount(serve(r, http.MethodDelete, "/cart/products/1", ""), 0)

	raw, ok, err := slots.Load(context.Background(), usecase.DefaultCartKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `[]`, string(raw))
}

func TestE2E_Rejections(t *testing.T) {
	inv, _, r := newE2E(t)
	inv.Put(1, 3)

	require.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/cart/products/1", "").Code)

	// amount >= остатка
	w := serve(r, http.MethodPatch, "/cart/products/1", `{"amount":3}`)
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, string(domain.NoticeOutOfStock), decodeError(t, w))

	// amount <= 0 — тихий no-op
	w = serve(r, http.MethodPatch, "/cart/products/1", `{"amount":0}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, decodeCart(t, w)[0].Amount)

	// товара нет на складе вовсе
	w = serve(r, http.MethodPost, "/cart/products/404", "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	require.Equal(t, string(domain.NoticeAddFailed), decodeError(t, w))

	// удаление отсутствующего
	w = serve(r, http.MethodDelete, "/cart/products/2", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, string(domain.NoticeRemoveFailed), decodeError(t, w))

	// склад лежит
	inv.FailWith.Store(http.StatusServiceUnavailable)
	w = serve(r, http.MethodPost, "/cart/products/1", "")
	require.Equal(t, http.StatusBadGateway, w.Code)

	inv.FailWith.Store(0)
	w = serve(r, http.MethodGet, "/cart", "")
	var cart []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart, 1)
	require.EqualValues(t, 1, cart[0]["amount"])
}
