package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/rocketshoes_cart/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что SlotRepository удовлетворяет интерфейсу CartStorage.
var _ ports.CartStorage = (*SlotRepository)(nil)

// SlotRepository — слот корзины в таблице cart_slots (key → jsonb).
type SlotRepository struct {
	pool *pgxpool.Pool
}

// NewSlotRepository - конструктор SlotRepository.
func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository { return &SlotRepository{pool: pool} }

// Load — содержимое слота; (nil, false, nil), если строки нет.
func (r *SlotRepository) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, errors.New("slot key is required")
	}

	var value []byte
	err := r.pool.QueryRow(ctx, `SELECT value FROM cart_slots WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select slot: %w", err)
	}
	return value, true, nil
}

// Save — upsert слота целиком; побеждает последний писатель.
func (r *SlotRepository) Save(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return errors.New("slot key is required")
	}

	if _, err := r.pool.Exec(ctx, `
		INSERT INTO cart_slots (key, value, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`, key, string(value)); err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}
