//go:build integration

package testutil

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// UniqueTopicAndGroup — уникальные topic/group на основе префикса.
func UniqueTopicAndGroup(base string) (topic, group string) {
	s := strconv.FormatInt(time.Now().UnixNano(), 10)
	return base + "-" + s, base + "-g-" + s
}

// EnsureTopic — создаёт топик через контроллер кластера (уже существующий — не ошибка).
func EnsureTopic(ctx context.Context, broker, topic string) error {
	addr := bootstrapHost(broker)

	conn, err := kafka.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctrl, err := conn.Controller()
	if err != nil {
		return err
	}
	admin, err := kafka.DialContext(ctx, "tcp", net.JoinHostPort(ctrl.Host, strconv.Itoa(ctrl.Port)))
	if err != nil {
		return err
	}
	defer admin.Close()

	err = admin.CreateTopics(kafka.TopicConfig{Topic: topic, NumPartitions: 1, ReplicationFactor: 1})
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return fmt.Errorf("create topic %q: %w", topic, err)
	}
	return nil
}

// ProduceRaw — пишет сообщения в топик синхронно.
func ProduceRaw(ctx context.Context, brokers []string, topic string, values ...[]byte) error {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
	}
	defer w.Close()

	msgs := make([]kafka.Message, 0, len(values))
	for _, v := range values {
		msgs = append(msgs, kafka.Message{Value: v})
	}
	return w.WriteMessages(ctx, msgs...)
}

// bootstrapHost — первый адрес bootstrap-строки без схемы вида "PLAINTEXT://".
func bootstrapHost(raw string) string {
	first := strings.TrimSpace(strings.Split(raw, ",")[0])
	if strings.Contains(first, "://") {
		if u, err := url.Parse(first); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return first
}
