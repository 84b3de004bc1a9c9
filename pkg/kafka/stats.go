package kafka

import (
	"strconv"
	"time"

	cb "github.com/Astemirdum/library-management/pkg/circuit_breaker"
	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type StatsLog interface {
	Log(event EventStats) error
}

type statsLog struct {
	producer sarama.SyncProducer
	topic    string
	breaker  cb.CircuitBreaker
}

// NewStatsLog publishes events synchronously; once the broker keeps failing the
// breaker opens and Log fails fast with circuit_breaker.ErrOpenCB.
func NewStatsLog(producer sarama.SyncProducer, topic string) StatsLog {
	if topic == "" {
		topic = StatsTopic
	}
	return &statsLog{
		producer: producer,
		topic:    topic,
		breaker:  cb.New(10, 30*time.Second, 0.5, 3),
	}
}

func (l *statsLog) Log(event EventStats) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: l.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.MemberID, 10)),
		Value: sarama.ByteEncoder(data),
	}
	return l.breaker.Call(func() error {
		_, _, err := l.producer.SendMessage(msg)
		return err
	})
}

type nopStatsLog struct{}

// NopStatsLog is used when no brokers are configured.
func NopStatsLog() StatsLog { return nopStatsLog{} }

func (nopStatsLog) Log(EventStats) error { return nil }
