package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
	"github.com/Gunvolt24/rocketshoes_cart/internal/ports"
)

// DecodeCart — строгий разбор JSON-списка позиций (неизвестные поля и хвост запрещены).
// Пустой ввод и null дают пустую корзину.
func DecodeCart(raw []byte) (domain.Cart, error) {
	return decodeCart(raw, true)
}

// DecodeStoredCart — разбор сохранённого слота. Лишние поля карточки товара пропускаются:
// прежний клиент клал в слот весь ответ products/{id}.
func DecodeStoredCart(raw []byte) (domain.Cart, error) {
	return decodeCart(raw, false)
}

func decodeCart(raw []byte, strict bool) (domain.Cart, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return domain.Cart{}, nil
	}
	var cart domain.Cart
	dec := json.NewDecoder(bytes.NewReader(raw))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&cart); err != nil {
		return nil, fmt.Errorf("%w: invalid json: %v", ErrInvalidCart, err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("%w: invalid json: trailing data", ErrInvalidCart)
	}
	if cart == nil {
		cart = domain.Cart{}
	}
	return cart, nil
}

// ValidateCartFromJSON — разбор и валидация корзины из JSON.
func ValidateCartFromJSON(ctx context.Context, validator ports.CartValidator, raw []byte) (domain.Cart, error) {
	cart, err := DecodeCart(raw)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
