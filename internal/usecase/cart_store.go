package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
	"github.com/Gunvolt24/rocketshoes_cart/internal/ports"
	"github.com/Gunvolt24/rocketshoes_cart/pkg/metrics"
	"github.com/Gunvolt24/rocketshoes_cart/pkg/validate"
)

// DefaultCartKey — ключ слота, под которым хранится корзина.
const DefaultCartKey = "@RocketShoes:cart"

// Имена операций для логов и метрик.
const (
	opAdd    = "add"
	opRemove = "remove"
	opUpdate = "update"
)

// Проверка, что CartStore удовлетворяет порту транспортного слоя.
var _ ports.CartService = (*CartStore)(nil)

// CartStore — состояние корзины с записью в слот после каждого успешного изменения.
// Изменения сериализуются opMu целиком, включая походы в склад.
// mu защищает только сам список: чтение не ждёт склад и слот.
type CartStore struct {
	storage   ports.CartStorage
	inventory ports.InventoryLookup
	notifier  ports.Notifier
	log       ports.Logger
	key       string

	opMu sync.Mutex
	mu   sync.RWMutex
	cart domain.Cart // пишется только под opMu и mu
}

// NewCartStore — DI-конструктор; один раз гидрирует корзину из слота.
// Слота нет → пустая корзина; битый слот → ошибка (fail-fast на старте).
// Лишние поля позиций в слоте игнорируются.
func NewCartStore(
	ctx context.Context,
	storage ports.CartStorage,
	inventory ports.InventoryLookup,
	notifier ports.Notifier,
	log ports.Logger,
	validator ports.CartValidator,
	key string,
) (*CartStore, error) {
	if key == "" {
		key = DefaultCartKey
	}
	s := &CartStore{
		storage:   storage,
		inventory: inventory,
		notifier:  notifier,
		log:       log,
		key:       key,
		cart:      domain.Cart{},
	}

	raw, found, err := storage.Load(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load cart slot %q: %w", key, err)
	}
	if !found {
		log.Infof(ctx, "cart slot %q is empty, starting with empty cart", key)
		metrics.CartEntries.Set(0)
		return s, nil
	}

	cart, err := validate.DecodeStoredCart(raw)
	if err != nil {
		return nil, fmt.Errorf("decode cart slot %q: %w", key, err)
	}
	if err := validator.Validate(ctx, cart); err != nil {
		return nil, fmt.Errorf("validate cart slot %q: %w", key, err)
	}

	s.cart = cart
	metrics.CartEntries.Set(float64(len(cart)))
	log.Infof(ctx, "cart hydrated key=%q entries=%d items=%d", key, len(cart), cart.TotalItems())
	return s, nil
}

// Cart — копия текущего списка позиций.
func (s *CartStore) Cart(_ context.Context) domain.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// AddProduct — добавить единицу товара:
//  1. остаток на складе;
//  2. метаданные товара из каталога;
//  3. новой позиции ставим amount=1, существующей — +1 (позиция в списке не меняется);
//  4. запись в слот.
func (s *CartStore) AddProduct(ctx context.Context, productID int64) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	stock, err := s.inventory.Stock(ctx, productID)
	if err != nil {
		return s.fail(ctx, opAdd, domain.NoticeAddFailed,
			fmt.Errorf("%w: stock product=%d: %w", domain.ErrInventoryLookup, productID, err))
	}
	if addBlockedByStock(stock) {
		return s.reject(ctx, opAdd, domain.NoticeOutOfStock,
			fmt.Errorf("%w: product=%d stock=%d", domain.ErrOutOfStock, productID, stock.Amount))
	}

	product, err := s.inventory.Product(ctx, productID)
	if err != nil {
		return s.fail(ctx, opAdd, domain.NoticeAddFailed,
			fmt.Errorf("%w: product=%d: %w", domain.ErrInventoryLookup, productID, err))
	}

	next := s.cart.Clone()
	if i := next.Index(productID); i >= 0 {
		next[i].Amount++
	} else {
		product.ID = productID
		product.Amount = 1
		next = append(next, product)
	}

	if err := s.persist(ctx, next); err != nil {
		return s.fail(ctx, opAdd, domain.NoticeAddFailed, err)
	}
	s.commit(ctx, opAdd, next)
	return nil
}

// RemoveProduct — удалить позицию целиком; отсутствующий товар — отказ без записи в слот.
func (s *CartStore) RemoveProduct(ctx context.Context, productID int64) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	i := s.cart.Index(productID)
	if i < 0 {
		return s.reject(ctx, opRemove, domain.NoticeRemoveFailed,
			fmt.Errorf("%w: product=%d", domain.ErrProductNotInCart, productID))
	}

	next := make(domain.Cart, 0, len(s.cart)-1)
	next = append(next, s.cart[:i]...)
	next = append(next, s.cart[i+1:]...)

	if err := s.persist(ctx, next); err != nil {
		return s.fail(ctx, opRemove, domain.NoticeRemoveFailed, err)
	}
	s.commit(ctx, opRemove, next)
	return nil
}

// UpdateProductAmount — выставить количество позиции.
// amount <= 0 — тихий no-op. Остаток <= 0 — общий отказ; amount >= остатка — «нет на складе».
func (s *CartStore) UpdateProductAmount(ctx context.Context, productID int64, amount int) error {
	if amount <= 0 {
		metrics.CartOperations.WithLabelValues(opUpdate, metrics.ResultNoop).Inc()
		return nil
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	stock, err := s.inventory.Stock(ctx, productID)
	if err != nil {
		return s.fail(ctx, opUpdate, domain.NoticeUpdateFailed,
			fmt.Errorf("%w: stock product=%d: %w", domain.ErrInventoryLookup, productID, err))
	}
	if stock.Amount <= 0 {
		return s.reject(ctx, opUpdate, domain.NoticeUpdateFailed,
			fmt.Errorf("%w: product=%d stock=%d", domain.ErrStockUnavailable, productID, stock.Amount))
	}
	if amount >= stock.Amount {
		return s.reject(ctx, opUpdate, domain.NoticeOutOfStock,
			fmt.Errorf("%w: product=%d requested=%d stock=%d", domain.ErrOutOfStock, productID, amount, stock.Amount))
	}

	i := s.cart.Index(productID)
	if i < 0 {
		return s.reject(ctx, opUpdate, domain.NoticeUpdateFailed,
			fmt.Errorf("%w: product=%d", domain.ErrProductNotInCart, productID))
	}

	next := s.cart.Clone()
	next[i].Amount = amount

	if err := s.persist(ctx, next); err != nil {
		return s.fail(ctx, opUpdate, domain.NoticeUpdateFailed, err)
	}
	s.commit(ctx, opUpdate, next)
	return nil
}

// addBlockedByStock — текущее правило: добавление блокирует только отрицательный остаток.
// На целых остатках не срабатывает никогда; оставлено как есть до подтверждения владельцем продукта.
func addBlockedByStock(stock domain.Stock) bool {
	return stock.Amount < 0
}

// persist — запись нового списка в слот; память меняется только после успешной записи.
func (s *CartStore) persist(ctx context.Context, next domain.Cart) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("%w: marshal: %w", domain.ErrPersist, err)
	}
	if err := s.storage.Save(ctx, s.key, raw); err != nil {
		return fmt.Errorf("%w: save key=%q: %w", domain.ErrPersist, s.key, err)
	}
	return nil
}

// commit — подмена списка в памяти; вызывается под opMu после успешной записи в слот.
func (s *CartStore) commit(ctx context.Context, op string, next domain.Cart) {
	s.mu.Lock()
	s.cart = next
	s.mu.Unlock()
	metrics.CartOperations.WithLabelValues(op, metrics.ResultOK).Inc()
	metrics.CartEntries.Set(float64(len(next)))
	s.log.Infof(ctx, "cart %s ok entries=%d items=%d", op, len(next), next.TotalItems())
}

// reject — бизнес-отказ: уведомление пользователю, состояние не меняется.
func (s *CartStore) reject(ctx context.Context, op string, notice domain.Notice, err error) error {
	metrics.CartOperations.WithLabelValues(op, metrics.ResultRejected).Inc()
	s.log.Infof(ctx, "cart %s rejected: %v", op, err)
	s.notifier.Notify(ctx, notice)
	return &domain.NoticeError{Notice: notice, Err: err}
}

// fail — сбой склада/хранилища: общее уведомление, состояние не меняется.
func (s *CartStore) fail(ctx context.Context, op string, notice domain.Notice, err error) error {
	metrics.CartOperations.WithLabelValues(op, metrics.ResultFailed).Inc()
	s.log.Warnf(ctx, "cart %s failed: %v", op, err)
	s.notifier.Notify(ctx, notice)
	return &domain.NoticeError{Notice: notice, Err: err}
}
