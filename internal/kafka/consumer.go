package kafka

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Gunvolt24/rocketshoes_cart/internal/ports"
	"github.com/Gunvolt24/rocketshoes_cart/pkg/metrics"
)

// Проверка, что Consumer удовлетворяет порту приложения.
var _ ports.MessageConsumer = (*Consumer)(nil)

// reader — минимальный контракт над kafka.Reader, чтобы подменять его моками.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

// commandApplier — корзина, исполняющая команду из сообщения.
type commandApplier interface {
	ApplyCommand(ctx context.Context, raw []byte) error
}

// Consumer — читает команды корзины из Kafka и применяет их по одной.
type Consumer struct {
	reader         reader
	cart           commandApplier
	log            ports.Logger
	processTimeout time.Duration
	retryInitial   time.Duration
	retryMax       time.Duration
	jitterRand     *rand.Rand
	closeOnce      sync.Once
}

// NewConsumer — конструктор; reader настроен на ручной коммит оффсетов.
func NewConsumer(cfg *ConsumerConfig, cart commandApplier, log ports.Logger) *Consumer {
	pt := cfg.ProcessTimeout
	if pt <= 0 {
		pt = 5 * time.Second
	}
	rInit := cfg.RetryInitial
	if rInit <= 0 {
		rInit = 1 * time.Second
	}
	rMax := cfg.RetryMax
	if rMax <= 0 {
		rMax = 30 * time.Second
	}

	return &Consumer{
		reader:         kafka.NewReader(cfg.ReaderConfig()),
		cart:           cart,
		log:            log,
		processTimeout: pt,
		retryInitial:   rInit,
		retryMax:       rMax,
		jitterRand:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run — основной цикл:
// 1) читаем сообщение без авто-коммита;
// 2) применяем команду к корзине (успех, отказ и невалидная команда одинаково финальны) → коммит;
// 3) остановка приложения посреди команды → без коммита, команда придёт снова после рестарта.
// Ошибки FetchMessage ретраятся с экспоненциальным backoff и equal-jitter.
func (c *Consumer) Run(ctx context.Context) error {
	rc := c.reader.Config()
	c.log.Infof(ctx, "kafka consumer started topic=%s group_id=%s brokers=%v", rc.Topic, rc.GroupID, rc.Brokers)

	retry := c.retryInitial

	for {
		msg, fetchErr := c.reader.FetchMessage(ctx)
		if fetchErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			sleep := c.withJitterEqual(retry)
			c.log.Warnf(ctx, "fetch failed: %v (will retry in %s)", fetchErr, sleep)
			if !c.sleepWithBackoff(ctx, sleep) {
				return ctx.Err()
			}
			retry = c.nextBackoff(retry)
			continue
		}

		retry = c.retryInitial
		metrics.KafkaMessagesConsumed.WithLabelValues(rc.Topic).Inc()

		if c.handleMessage(ctx, rc.Topic, &msg) {
			c.commitSafely(ctx, &msg)
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Close — закрывает reader; повторные вызовы безопасны.
func (c *Consumer) Close() (retErr error) {
	c.closeOnce.Do(func() {
		retErr = c.reader.Close()
	})
	return retErr
}
