package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
)

// ParseCommand — строгий разбор команды (неизвестные поля и хвост запрещены).
func ParseCommand(raw []byte) (domain.CartCommand, error) {
	var cmd domain.CartCommand
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		return cmd, fmt.Errorf("%w: invalid json: %v", domain.ErrInvalidCommand, err)
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return cmd, fmt.Errorf("%w: invalid json: trailing data", domain.ErrInvalidCommand)
	}
	if cmd.ProductID <= 0 {
		return cmd, fmt.Errorf("%w: product_id must be positive", domain.ErrInvalidCommand)
	}
	switch cmd.Op {
	case domain.OpAdd, domain.OpRemove, domain.OpUpdate:
	default:
		return cmd, fmt.Errorf("%w: unknown op %q", domain.ErrInvalidCommand, cmd.Op)
	}
	return cmd, nil
}

// ApplyCommand — разобрать команду из сообщения и выполнить соответствующую операцию.
func (s *CartStore) ApplyCommand(ctx context.Context, raw []byte) error {
	cmd, err := ParseCommand(raw)
	if err != nil {
		s.log.Warnf(ctx, "cart command rejected: %v", err)
		return err
	}

	switch cmd.Op {
	case domain.OpAdd:
		return s.AddProduct(ctx, cmd.ProductID)
	case domain.OpRemove:
		return s.RemoveProduct(ctx, cmd.ProductID)
	default:
		return s.UpdateProductAmount(ctx, cmd.ProductID, cmd.Amount)
	}
}
