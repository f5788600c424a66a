package domain

// CommandOp — тип команды над корзиной.
type CommandOp string

const (
	OpAdd    CommandOp = "add"
	OpRemove CommandOp = "remove"
	OpUpdate CommandOp = "update"
)

// CartCommand — команда изменения корзины, приходящая из Kafka.
// Amount используется только для OpUpdate.
type CartCommand struct {
	Op        CommandOp `json:"op"`
	ProductID int64     `json:"product_id"`
	Amount    int       `json:"amount,omitempty"`
}
