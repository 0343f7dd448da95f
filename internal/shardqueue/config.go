package shardqueue

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config groups all tunables. Values are taken from environment variables with
// the prefix "NOTES_DISPATCH_". Example: NOTES_DISPATCH_QUEUE_SIZE=256 .
type Config struct {
	Shards         int           `envconfig:"SHARDS"          default:"1"`
	QueueSize      int           `envconfig:"QUEUE_SIZE"      default:"128"`
	EnqueueTimeout time.Duration `envconfig:"ENQUEUE_TIMEOUT" default:"1s"`

	// ErrorHandler is called synchronously after a Job returns a non-nil error
	// or panics. Leave nil if you do not care.
	ErrorHandler func(error) `envconfig:"-"`
}

// LoadConfig populates Config from environment variables (prefix NOTES_DISPATCH_).
func LoadConfig() (Config, error) {
	var c Config
	return c, envconfig.Process("NOTES_DISPATCH", &c)
}
