package httpx

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrInvalidParam — параметр пути/тела не прошёл разбор.
var ErrInvalidParam = errors.New("invalid request parameter")

// ParseIDParam — положительный int64 из параметра пути (например, :id товара).
func ParseIDParam(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidParam, name, raw)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidParam, name, id)
	}
	return id, nil
}

// AmountBody — тело PATCH-запроса изменения количества.
type AmountBody struct {
	Amount *int `json:"amount"`
}

// BindAmount — читает {"amount": n}; поле обязательно, значение <= 0 допустимо (это no-op у корзины).
func BindAmount(c *gin.Context) (int, error) {
	var body AmountBody
	if err := c.ShouldBindJSON(&body); err != nil {
		return 0, fmt.Errorf("%w: body: %v", ErrInvalidParam, err)
	}
	if body.Amount == nil {
		return 0, fmt.Errorf("%w: amount is required", ErrInvalidParam)
	}
	return *body.Amount, nil
}
