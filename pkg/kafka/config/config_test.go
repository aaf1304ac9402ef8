package kafka_config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != DefaultKafkaBrokers {
		t.Errorf("Brokers = %v", cfg.Brokers)
	}
	if cfg.ConsumerGroupID != DefaultConsumerGroupID {
		t.Errorf("ConsumerGroupID = %q", cfg.ConsumerGroupID)
	}
}

func TestLoad_BrokerList(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, " k1:9092, ,k2:9092 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if strings.Join(cfg.Brokers, "|") != "k1:9092|k2:9092" {
		t.Errorf("Brokers = %v", cfg.Brokers)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectValid bool
		description string
	}{
		{name: "defaults", mutate: func(*Config) {}, expectValid: true, description: "defaults are valid"},
		{name: "bad compression", mutate: func(c *Config) { c.ProducerCompression = "brotli" }, expectValid: false, description: "unknown codec"},
		{name: "bad acks", mutate: func(c *Config) { c.ProducerRequireAcks = 2 }, expectValid: false, description: "acks outside -1..1"},
		{name: "no brokers", mutate: func(c *Config) { c.Brokers = nil }, expectValid: false, description: "broker list required"},
		{name: "bad offset", mutate: func(c *Config) { c.ConsumerStartOffset = 5 }, expectValid: false, description: "only newest/oldest"},
		{name: "no group", mutate: func(c *Config) { c.ConsumerGroupID = "" }, expectValid: false, description: "group id required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Brokers:                []string{"localhost:9092"},
				ProducerMaxAttempts:    DefaultProducerMaxAttempts,
				ProducerBatchTimeout:   DefaultProducerBatchTimeout,
				ProducerRequireAcks:    DefaultProducerRequireAcks,
				ProducerCompression:    DefaultProducerCompression,
				ConsumerGroupID:        DefaultConsumerGroupID,
				ConsumerStartOffset:    DefaultConsumerStartOffset,
				ConsumerMinBytes:       DefaultConsumerMinBytes,
				ConsumerMaxBytes:       DefaultConsumerMaxBytes,
				ConsumerMaxWait:        DefaultConsumerMaxWait,
				ConsumerCommitInterval: DefaultConsumerCommitInterval,
				ConsumerMaxRetries:     DefaultConsumerMaxRetries,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err == nil) != tt.expectValid {
				t.Errorf("%s: Validate() error = %v, expectValid %v", tt.description, err, tt.expectValid)
			}
		})
	}
}
