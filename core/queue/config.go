package queue

import "time"

// Config holds configuration for the job dispatcher.
type Config struct {
	// Workers is the number of concurrent job consumers.
	Workers int `mapstructure:"workers" default:"4"`
	// Backlog is the maximum number of accepted jobs waiting for a worker.
	Backlog int `mapstructure:"backlog" default:"1024"`
	// Tries is the default attempt limit for jobs that do not declare one.
	Tries int `mapstructure:"tries" default:"3"`
	// TimeoutSeconds is the default per-attempt timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// RetryInitialMillis is the first delay of the default exponential backoff.
	RetryInitialMillis int `mapstructure:"retry_initial_millis" default:"1000"`
	// RetryMaxSeconds caps the default exponential backoff.
	RetryMaxSeconds int `mapstructure:"retry_max_seconds" default:"60"`
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.Backlog <= 0 {
		c.Backlog = 1024
	}
	if c.Tries <= 0 {
		c.Tries = 3
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 60
	}
	if c.RetryInitialMillis < 0 {
		c.RetryInitialMillis = 0
	}
	if c.RetryMaxSeconds <= 0 {
		c.RetryMaxSeconds = 60
	}
	return c
}

func (c Config) timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
