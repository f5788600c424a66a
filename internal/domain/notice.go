package domain

// Notice — фиксированное сообщение для пользователя (не локализуется).
type Notice string

const (
	NoticeOutOfStock   Notice = "Quantidade solicitada fora de estoque"
	NoticeAddFailed    Notice = "Erro na adição do produto"
	NoticeRemoveFailed Notice = "Erro na remoção do produto"
	NoticeUpdateFailed Notice = "Erro na alteração de quantidade do produto"
)

func (n Notice) String() string { return string(n) }
