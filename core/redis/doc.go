// Package redis connects to the Redis server backing distributed job locks.
//
// Redis is optional. When disabled, the queue falls back to in-process locks,
// which is correct for a single worker process.
package redis
