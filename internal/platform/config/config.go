package config

import (
	"os"
	"strings"
	"time"

	pstrings "provenio/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	PostgresURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
}

// RedisConfig configures the optional entity link cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional master data event stream.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// LinkCacheTTL bounds staleness of cached entity links; a relink must become
// visible within this window.
var LinkCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PROVENIO_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	topic := os.Getenv("PROVENIO_KAFKA_TOPIC")
	if topic == "" {
		topic = "masterdata.events"
	}

	var brokers []string
	if raw := os.Getenv("PROVENIO_KAFKA_BROKERS"); raw != "" {
		brokers = pstrings.DedupeAndTrim(strings.Split(raw, ","))
	}

	return Server{
		Addr:        addr,
		PostgresURL: os.Getenv("PROVENIO_POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("PROVENIO_REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
			Topic:   topic,
		},
	}
}
