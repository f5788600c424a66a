package testutil

import (
	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

// MakeProduct — товар каталога со случайными метаданными (Amount не заполнен, как в ответе каталога).
func MakeProduct(id int64) domain.Product {
	return domain.Product{
		ID:    id,
		Title: gofakeit.ProductName(),
		Price: decimal.NewFromFloat(gofakeit.Price(50, 500)).Round(2),
		Image: gofakeit.URL(),
	}
}

// MakeCart — корзина из товаров с заданными ID, у каждой позиции amount=1.
func MakeCart(ids ...int64) domain.Cart {
	cart := make(domain.Cart, 0, len(ids))
	for _, id := range ids {
		p := MakeProduct(id)
		p.Amount = 1
		cart = append(cart, p)
	}
	return cart
}
