package kafka_config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())

	require.NoError(t, err)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, DefaultConsumerGroupID, cfg.ConsumerGroupID)
	assert.False(t, cfg.Disabled)
}

func TestFromViper_SplitsBrokers(t *testing.T) {
	v := viper.New()
	v.Set(EnvKafkaBrokers, "kafka-1:9092, kafka-2:9092")

	cfg, err := FromViper(v)

	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers)
}

func TestValidate_Errors(t *testing.T) {
	v := viper.New()
	v.Set(EnvKafkaBrokers, "kafka-1:9092,")
	v.Set(EnvKafkaProducerCompression, "brotli")
	v.Set(EnvKafkaProducerRequireAcks, 2)

	_, err := FromViper(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broker 1 cannot be empty")
	assert.Contains(t, err.Error(), "ProducerCompression must be one of")
	assert.Contains(t, err.Error(), "ProducerRequireAcks must be -1, 0, or 1")
}
