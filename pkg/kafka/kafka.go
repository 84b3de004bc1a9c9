package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

const StatsTopic = "library-stats"

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS"`
	Topic string   `envconfig:"KAFKA_STATS_TOPIC" default:"library-stats"`
}

func (c Config) Enabled() bool {
	return len(c.Addrs) > 0
}

type Action string

const (
	ActionMemberRegistered Action = "MEMBER_REGISTERED"
	ActionMemberLogin      Action = "MEMBER_LOGIN"
	ActionBookIssued       Action = "BOOK_ISSUED"
	ActionBookReturned     Action = "BOOK_RETURNED"
)

type EventStats struct {
	Action     Action    `json:"action"`
	MemberID   int64     `json:"memberId"`
	BookID     int64     `json:"bookId,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Timeout = 2 * time.Second
	defaultCfg.Producer.Retry.Max = 1

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
