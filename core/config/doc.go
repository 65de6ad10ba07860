// Package config provides configuration management for the catalog service.
//
// It loads an optional .env file with godotenv and then reads environment
// variables through Viper. Defaults come from the `default` struct tags of each
// partial configuration, registered by reflection so that every key is known
// to AutomaticEnv.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, metrics path
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: S3/MinIO credentials, bucket, registry document, export prefix
//   - Log: logging level and format
//   - Redis: optional distributed lock store
//   - Queue: workers, backlog, attempts, timeouts and retry backoff
//
// Environment keys are the upper-cased dotted path with underscores, for
// example QUEUE_WORKERS or DATABASE_DRIVER.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Queue.Workers)
package config
