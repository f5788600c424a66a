package domain

// Cart — упорядоченный список позиций; порядок = порядок добавления.
// Инварианты: не более одной позиции на ID, Amount >= 1.
type Cart []Product

// Index — позиция товара в корзине или -1.
func (c Cart) Index(productID int64) int {
	for i := range c {
		if c[i].ID == productID {
			return i
		}
	}
	return -1
}

// Clone — копия корзины; nil превращается в пустой список, чтобы в JSON всегда был [].
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// TotalItems — суммарное количество единиц товара.
func (c Cart) TotalItems() int {
	n := 0
	for i := range c {
		n += c[i].Amount
	}
	return n
}
