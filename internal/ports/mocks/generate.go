//go:generate mockgen -source=../cart_storage.go     -destination=./mock_cart_storage.go     -package=mocks
//go:generate mockgen -source=../inventory.go        -destination=./mock_inventory.go        -package=mocks
//go:generate mockgen -source=../notifier.go         -destination=./mock_notifier.go         -package=mocks
//go:generate mockgen -source=../validator.go        -destination=./mock_validator.go        -package=mocks
//go:generate mockgen -source=../logger.go           -destination=./mock_logger.go           -package=mocks
//go:generate mockgen -source=../message_consumer.go -destination=./mock_message_consumer.go -package=mocks
//go:generate mockgen -source=../cart_service.go     -destination=./mock_cart_service.go     -package=mocks

package mocks
