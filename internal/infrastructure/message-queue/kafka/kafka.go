package kafka

import (
	"context"

	"github.com/jaehokim/marketplace-service/config"
	"github.com/segmentio/kafka-go"
)

// Producer publishes product lifecycle events for downstream consumers.
type Producer interface {
	Publish(value []byte) error
	PublishWithKey(key string, value []byte) error
}

type ConnProducer struct {
	conn *kafka.Conn
}

func CreateKafkaProducer(config *config.Config) *ConnProducer {
	conn, err := kafka.DialLeader(context.Background(), "tcp", config.KafkaConfig.BrokerAddress, config.KafkaConfig.BrokerTopic, config.KafkaConfig.BrokerPartition)
	if err != nil {
		panic(err)
	}

	return &ConnProducer{conn: conn}
}

func (p *ConnProducer) Publish(value []byte) error {
	_, err := p.conn.WriteMessages(
		kafka.Message{
			Value: value,
		},
	)
	return err
}

func (p *ConnProducer) PublishWithKey(key string, value []byte) error {
	_, err := p.conn.WriteMessages(
		kafka.Message{
			Key:   []byte(key),
			Value: value,
		},
	)
	return err
}
