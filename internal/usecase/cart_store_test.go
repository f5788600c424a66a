package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
	"github.com/Gunvolt24/rocketshoes_cart/internal/ports/mocks"
	"github.com/Gunvolt24/rocketshoes_cart/internal/repo/memory"
	"github.com/Gunvolt24/rocketshoes_cart/internal/testutil"
	"github.com/Gunvolt24/rocketshoes_cart/internal/usecase"
	"github.com/Gunvolt24/rocketshoes_cart/pkg/validate"
)

const cartKey = usecase.DefaultCartKey

type noopLogger struct{}

func (noopLogger) Debugf(context.Context, string, ...any) {}
func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

type fixture struct {
	slots    *memory.SlotStore
	inv      *mocks.MockInventoryLookup
	notifier *mocks.MockNotifier
	store    *usecase.CartStore
}

// newFixture — стор поверх слота в памяти, заранее заполненного initial (nil — пустой слот).
func newFixture(t *testing.T, initial domain.Cart) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	slots := memory.NewSlotStore()
	if initial != nil {
		raw, err := json.Marshal(initial)
		if err != nil {
			t.Fatalf("marshal initial: %v", err)
		}
		_ = slots.Save(ctx, cartKey, raw)
	}

	f := &fixture{
		slots:    slots,
		inv:      mocks.NewMockInventoryLookup(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
	}
	store, err := usecase.NewCartStore(ctx, slots, f.inv, f.notifier, noopLogger{}, validate.NewCartValidator(), cartKey)
	if err != nil {
		t.Fatalf("NewCartStore: %v", err)
	}
	f.store = store
	return f
}

// persisted — декодированное содержимое слота.
func (f *fixture) persisted(t *testing.T) domain.Cart {
	t.Helper()
	raw, ok, err := f.slots.Load(context.Background(), cartKey)
	if err != nil || !ok {
		t.Fatalf("slot must exist: ok=%v err=%v", ok, err)
	}
	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		t.Fatalf("slot is not a cart: %v", err)
	}
	return cart
}

// requireRoundTrip — слот декодируется ровно в состояние в памяти.
func (f *fixture) requireRoundTrip(t *testing.T) {
	t.Helper()
	if diff := cmp.Diff(f.store.Cart(context.Background()), f.persisted(t)); diff != "" {
		t.Fatalf("persisted cart differs from memory (-mem +slot):\n%s", diff)
	}
}

func requireCart(t *testing.T, want, got domain.Cart) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cart mismatch (-want +got):\n%s", diff)
	}
}

func requireNotice(t *testing.T, err error, wantNotice domain.Notice, wantErr error) {
	t.Helper()
	if !errors.Is(err, wantErr) {
		t.Fatalf("want %v in chain, got %v", wantErr, err)
	}
	notice, ok := domain.NoticeOf(err)
	if !ok || notice != wantNotice {
		t.Fatalf("want notice %q, got %q (ok=%v)", wantNotice, notice, ok)
	}
}

// ---- гидратация ----

func TestNewCartStore_EmptySlot(t *testing.T) {
	f := newFixture(t, nil)
	got := f.store.Cart(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil cart, got %#v", got)
	}
}

func TestNewCartStore_HydratesFromSlot(t *testing.T) {
	initial := testutil.MakeCart(3, 1, 2)
	f := newFixture(t, initial)
	requireCart(t, initial, f.store.Cart(context.Background()))
}

func TestNewCartStore_CorruptSlot(t *testing.T) {
	ctrl := gomock.NewController(t)
	slots := memory.NewSlotStore()
	_ = slots.Save(context.Background(), cartKey, []byte(`{"not":"a list"}`))

	_, err := usecase.NewCartStore(context.Background(), slots, mocks.NewMockInventoryLookup(ctrl),
		mocks.NewMockNotifier(ctrl), noopLogger{}, validate.NewCartValidator(), cartKey)
	if !errors.Is(err, domain.ErrInvalidCart) {
		t.Fatalf("want ErrInvalidCart, got %v", err)
	}
}

// Слот, записанный прежним клиентом с полной карточкой товара, поднимается без ошибки.
func TestNewCartStore_SlotWithExtraCatalogFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	slots := memory.NewSlotStore()
	raw := `[{"id":1,"title":"Tênis","price":139.9,"image":"https://example.com/1.jpg","amount":2,"brand":"Nike","tags":["run"]}]`
	_ = slots.Save(context.Background(), cartKey, []byte(raw))

	store, err := usecase.NewCartStore(context.Background(), slots,
		mocks.NewMockInventoryLookup(ctrl), mocks.NewMockNotifier(ctrl), noopLogger{}, validate.NewCartValidator(), cartKey)
	if err != nil {
		t.Fatalf("NewCartStore: %v", err)
	}
	got := store.Cart(context.Background())
	if len(got) != 1 || got[0].ID != 1 || got[0].Amount != 2 || got[0].Title != "Tênis" {
		t.Fatalf("unexpected hydrated cart: %+v", got)
	}
}

func TestNewCartStore_ValidatorRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	slots := memory.NewSlotStore()
	_ = slots.Save(context.Background(), cartKey, []byte(`[{"id":1,"amount":1}]`))

	validator := mocks.NewMockCartValidator(ctrl)
	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(domain.ErrInvalidCart)

	_, err := usecase.NewCartStore(context.Background(), slots, mocks.NewMockInventoryLookup(ctrl),
		mocks.NewMockNotifier(ctrl), noopLogger{}, validator, cartKey)
	if !errors.Is(err, domain.ErrInvalidCart) {
		t.Fatalf("want ErrInvalidCart, got %v", err)
	}
}

func TestNewCartStore_LoadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockCartStorage(ctrl)
	loadErr := errors.New("redis down")
	storage.EXPECT().Load(gomock.Any(), cartKey).Return(nil, false, loadErr)

	_, err := usecase.NewCartStore(context.Background(), storage, mocks.NewMockInventoryLookup(ctrl),
		mocks.NewMockNotifier(ctrl), noopLogger{}, validate.NewCartValidator(), "")
	if !errors.Is(err, loadErr) {
		t.Fatalf("want load error, got %v", err)
	}
}

// ---- AddProduct ----

func TestAddProduct_NewEntryAppended(t *testing.T) {
	initial := testutil.MakeCart(5)
	f := newFixture(t, initial)
	catalog := testutil.MakeProduct(9)

	gomock.InOrder(
		f.inv.EXPECT().Stock(gomock.Any(), int64(9)).Return(domain.Stock{ID: 9, Amount: 10}, nil),
		f.inv.EXPECT().Product(gomock.Any(), int64(9)).Return(catalog, nil),
	)

	if err := f.store.AddProduct(context.Background(), 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	added := catalog
	added.Amount = 1
	requireCart(t, append(initial.Clone(), added), f.store.Cart(context.Background()))
	f.requireRoundTrip(t)
}

func TestAddProduct_ExistingEntryIncremented(t *testing.T) {
	initial := testutil.MakeCart(1, 2, 3)
	f := newFixture(t, initial)

	f.inv.EXPECT().Stock(gomock.Any(), int64(2)).Return(domain.Stock{ID: 2, Amount: 10}, nil)
	// каталог может вернуть другие метаданные — существующая позиция их не перенимает
	f.inv.EXPECT().Product(gomock.Any(), int64(2)).Return(testutil.MakeProduct(2), nil)

	if err := f.store.AddProduct(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := initial.Clone()
	want[1].Amount = 2
	requireCart(t, want, f.store.Cart(context.Background()))
	f.requireRoundTrip(t)
}

func TestAddProduct_UsesRequestedID(t *testing.T) {
	f := newFixture(t, nil)

	catalog := testutil.MakeProduct(0) // каталог без id
	f.inv.EXPECT().Stock(gomock.Any(), int64(4)).Return(domain.Stock{ID: 4, Amount: 1}, nil)
	f.inv.EXPECT().Product(gomock.Any(), int64(4)).Return(catalog, nil)

	if err := f.store.AddProduct(context.Background(), 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.store.Cart(context.Background()); len(got) != 1 || got[0].ID != 4 {
		t.Fatalf("entry must carry requested id, got %+v", got)
	}
}

func TestAddProduct_StockLookupFails(t *testing.T) {
	initial := testutil.MakeCart(1)
	f := newFixture(t, initial)

	f.inv.EXPECT().Stock(gomock.Any(), int64(1)).Return(domain.Stock{}, errors.New("timeout"))
	f.inv.EXPECT().Product(gomock.Any(), gomock.Any()).Times(0)
	f.notifier.EXPECT().Notify(gomock.Any(), domain.NoticeAddFailed)

	err := f.store.AddProduct(context.Background(), 1)
	requireNotice(t, err, domain.NoticeAddFailed, domain.ErrInventoryLookup)
	requireCart(t, initial, f.store.Cart(context.Background()))
	requireCart(t, initial, f.persisted(t))
}

func TestAddProduct_ProductLookupFails(t *testing.T) {
	f := newFixture(t, nil)

	f.inv.EXPECT().Stock(gomock.Any(), int64(1)).Return(domain.Stock{ID: 1, Amount: 3}, nil)
	f.inv.EXPECT().Product(gomock.Any(), int64(1)).Return(domain.Product{}, errors.New("404"))
	f.notifier.EXPECT().Notify(gomock.Any(), domain.NoticeAddFailed)

	err := f.store.AddProduct(context.Background(), 1)
	requireNotice(t, err, domain.NoticeAddFailed, domain.ErrInventoryLookup)
	if len(f.store.Cart(context.Background())) != 0 {
		t.Fatalf("cart must stay empty")
	}
}

func TestAddProduct_NegativeStockBlocks(t *testing.T) {
	f := newFixture(t, nil)

	f.inv.EXPECT().Stock(gomock.Any(), int64(1)).Return(domain.Stock{ID: 1, Amount: -1}, nil)
	f.notifier.EXPECT().Notify(gomock.Any(), domain.NoticeOutOfStock)

	err := f.store.AddProduct(context.Background(), 1)
	requireNotice(t, err, domain.NoticeOutOfStock, domain.ErrOutOfStock)
}

func TestAddProduct_ZeroStockDoesNotBlock(t *testing.T) {
	f := newFixture(t, nil)

	f.inv.EXPECT().Stock(gomock.Any(), int64(1)).Return(domain.Stock{ID: 1, Amount: 0}, nil)
	f.inv.EXPECT().Product(gomock.Any(), int64(1)).Return(testutil.MakeProduct(1), nil)

	if err := f.store.AddProduct(context.Background(), 1); err != nil {
		t.Fatalf("zero stock must not block add, got %v", err)
	}
}

func TestAddProduct_PersistFails_StateUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockCartStorage(ctrl)
	inv := mocks.NewMockInventoryLookup(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	storage.EXPECT().Load(gomock.Any(), cartKey).Return(nil, false, nil)
	store, err := usecase.NewCartStore(context.Background(), storage, inv, notifier, noopLogger{}, validate.NewCartValidator(), cartKey)
	if err != nil {
		t.Fatalf("NewCartStore: %v", err)
	}

	inv.EXPECT().Stock(gomock.Any(), int64(1)).Return(domain.Stock{ID: 1, Amount: 5}, nil)
	inv.EXPECT().Product(gomock.Any(), int64(1)).Return(testutil.MakeProduct(1), nil)
	storage.EXPECT().Save(gomock.Any(), cartKey, gomock.Any()).Return(errors.New("disk full"))
	notifier.EXPECT().Notify(gomock.Any(), domain.NoticeAddFailed)

	err = store.AddProduct(context.Background(), 1)
	requireNotice(t, err, domain.NoticeAddFailed, domain.ErrPersist)
	if len(store.Cart(context.Background())) != 0 {
		t.Fatalf("memory must not change when persist fails")
	}
}

// ---- RemoveProduct ----

func TestRemoveProduct_Present(t *testing.T) {
	initial := testutil.MakeCart(1, 2, 3)
	f := newFixture(t, initial)

	if err := f.store.RemoveProduct(context.Background(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	requireCart(t, domain.Cart{initial[0], initial[2]}, f.store.Cart(context.Background()))
	f.requireRoundTrip(t)
}

func TestRemoveProduct_Absent_NoWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockCartStorage(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	initial := testutil.MakeCart(1, 2)
	raw, _ := json.Marshal(initial)
	storage.EXPECT().Load(gomock.Any(), cartKey).Return(raw, true, nil)
	storage.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	notifier.EXPECT().Notify(gomock.Any(), domain.NoticeRemoveFailed)

	store, err := usecase.NewCartStore(context.Background(), storage, mocks.NewMockInventoryLookup(ctrl),
		notifier, noopLogger{}, validate.NewCartValidator(), cartKey)
	if err != nil {
		t.Fatalf("NewCartStore: %v", err)
	}

	err = store.RemoveProduct(context.Background(), 99)
	requireNotice(t, err, domain.NoticeRemoveFailed, domain.ErrProductNotInCart)

	after, _ := json.Marshal(store.Cart(context.Background()))
	if string(after) != string(raw) {
		t.Fatalf("cart must be byte-for-byte unchanged:\nwant %s\ngot  %s", raw, after)
	}
}

// ---- UpdateProductAmount ----

func TestUpdateProductAmount_NonPositive_StrictNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	storage := mocks.NewMockCartStorage(ctrl)
	inv := mocks.NewMockInventoryLookup(ctrl)

	storage.EXPECT().Load(gomock.Any(), cartKey).Return([]byte(`[{"id":1,"amount":2}]`), true, nil)
	store, err := usecase.NewCartStore(context.Background(), storage, inv, mocks.NewMockNotifier(ctrl),
		noopLogger{}, validate.NewCartValidator(), cartKey)
	if err != nil {
		t.Fatalf("NewCartStore: %v", err)
	}

	storage.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	inv.EXPECT().Stock(gomock.Any(), gomock.Any()).Times(0)

	for _, amount := range []int{0, -1, -100} {
		if err := store.UpdateProductAmount(context.Background(), 1, amount); err != nil {
			t.Fatalf("amount=%d: want silent no-op, got %v", amount, err)
		}
	}
	if got := store.Cart(context.Background()); got[0].Amount != 2 {
		t.Fatalf("amount must stay 2, got %d", got[0].Amount)
	}
}

func TestUpdateProductAmount_OK(t *testing.T) {
	initial := testutil.MakeCart(1, 2)
	f := newFixture(t, initial)

	f.inv.EXPECT().Stock(gomock.Any(), int64(2)).Return(domain.Stock{ID: 2, Amount: 10}, nil)

	if err := f.store.UpdateProductAmount(context.Background(), 2, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := initial.Clone()
	want[1].Amount = 9
	requireCart(t, want, f.store.Cart(context.Background()))
	f.requireRoundTrip(t)
}

func TestUpdateProductAmount_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		productID  int64
		amount     int
		stock      int
		wantNotice domain.Notice
		wantErr    error
	}{
		{"equal_to_stock", 1, 10, 10, domain.NoticeOutOfStock, domain.ErrOutOfStock},
		{"above_stock", 1, 11, 10, domain.NoticeOutOfStock, domain.ErrOutOfStock},
		{"zero_stock", 1, 1, 0, domain.NoticeUpdateFailed, domain.ErrStockUnavailable},
		{"negative_stock", 1, 1, -3, domain.NoticeUpdateFailed, domain.ErrStockUnavailable},
		{"not_in_cart", 42, 2, 10, domain.NoticeUpdateFailed, domain.ErrProductNotInCart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initial := testutil.MakeCart(1)
			f := newFixture(t, initial)

			f.inv.EXPECT().Stock(gomock.Any(), tt.productID).Return(domain.Stock{ID: tt.productID, Amount: tt.stock}, nil)
			f.notifier.EXPECT().Notify(gomock.Any(), tt.wantNotice)

			err := f.store.UpdateProductAmount(context.Background(), tt.productID, tt.amount)
			requireNotice(t, err, tt.wantNotice, tt.wantErr)
			requireCart(t, initial, f.store.Cart(context.Background()))
			requireCart(t, initial, f.persisted(t))
		})
	}
}

func TestUpdateProductAmount_StockLookupFails(t *testing.T) {
	f := newFixture(t, testutil.MakeCart(1))

	f.inv.EXPECT().Stock(gomock.Any(), int64(1)).Return(domain.Stock{}, errors.New("conn refused"))
	f.notifier.EXPECT().Notify(gomock.Any(), domain.NoticeUpdateFailed)

	err := f.store.UpdateProductAmount(context.Background(), 1, 2)
	requireNotice(t, err, domain.NoticeUpdateFailed, domain.ErrInventoryLookup)
	if domain.IsRejection(err) {
		t.Fatalf("lookup failure must not be classified as rejection")
	}
}

// ---- сценарий целиком ----

func TestScenario_AddAddUpdateRemove(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	catalog := testutil.MakeProduct(1)

	f.inv.EXPECT().Stock(gomock.Any(), int64(1)).Return(domain.Stock{ID: 1, Amount: 10}, nil).Times(3)
	f.inv.EXPECT().Product(gomock.Any(), int64(1)).Return(catalog, nil).Times(2)

	step := func(name string, err error, wantAmount int) {
		t.Helper()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		got := f.store.Cart(ctx)
		if wantAmount == 0 {
			if len(got) != 0 {
				t.Fatalf("%s: want empty cart, got %+v", name, got)
			}
		} else if len(got) != 1 || got[0].ID != 1 || got[0].Amount != wantAmount {
			t.Fatalf("%s: want [{id:1 amount:%d}], got %+v", name, wantAmount, got)
		}
		f.requireRoundTrip(t)
	}

	step("add", f.store.AddProduct(ctx, 1), 1)
	step("add again", f.store.AddProduct(ctx, 1), 2)
	step("update", f.store.UpdateProductAmount(ctx, 1, 5), 5)
	step("remove", f.store.RemoveProduct(ctx, 1), 0)
}

// ---- конкурентность ----

func TestAddProduct_ConcurrentSameID_NoLostUpdates(t *testing.T) {
	f := newFixture(t, nil)
	catalog := testutil.MakeProduct(1)

	f.inv.EXPECT().Stock(gomock.Any(), int64(1)).Return(domain.Stock{ID: 1, Amount: 100}, nil).AnyTimes()
	f.inv.EXPECT().Product(gomock.Any(), int64(1)).Return(catalog, nil).AnyTimes()

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = f.store.AddProduct(context.Background(), 1)
		}()
	}
	wg.Wait()

	got := f.store.Cart(context.Background())
	if len(got) != 1 || got[0].Amount != n {
		t.Fatalf("want single entry with amount=%d, got %+v", n, got)
	}
	f.requireRoundTrip(t)
}

// Чтение корзины не ждёт изменение, зависшее на складе.
func TestCart_NotBlockedByInFlightLookup(t *testing.T) {
	initial := testutil.MakeCart(1)
	f := newFixture(t, initial)
	catalog := testutil.MakeProduct(2)

	entered := make(chan struct{})
	release := make(chan struct{})
	f.inv.EXPECT().Stock(gomock.Any(), int64(2)).DoAndReturn(func(context.Context, int64) (domain.Stock, error) {
		close(entered)
		<-release
		return domain.Stock{ID: 2, Amount: 10}, nil
	})
	f.inv.EXPECT().Product(gomock.Any(), int64(2)).Return(catalog, nil)

	done := make(chan error, 1)
	go func() { done <- f.store.AddProduct(context.Background(), 2) }()
	<-entered

	read := make(chan domain.Cart, 1)
	go func() { read <- f.store.Cart(context.Background()) }()

	select {
	case got := <-read:
		requireCart(t, initial, got)
	case <-time.After(time.Second):
		close(release)
		t.Fatal("Cart blocked behind in-flight inventory lookup")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("AddProduct: %v", err)
	}
	if got := f.store.Cart(context.Background()); len(got) != 2 || got[1].ID != 2 {
		t.Fatalf("want product 2 appended after release, got %+v", got)
	}
	f.requireRoundTrip(t)
}

func TestCart_ReturnsCopy(t *testing.T) {
	f := newFixture(t, testutil.MakeCart(1))

	got := f.store.Cart(context.Background())
	got[0].Amount = 100

	if again := f.store.Cart(context.Background()); again[0].Amount != 1 {
		t.Fatalf("Cart must return a copy, internal amount changed to %d", again[0].Amount)
	}
}
