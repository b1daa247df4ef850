// Package config loads the settings of payment-sync.
//
// Values come from environment variables, optionally seeded from a .env file.
// Every section declares its defaults in `default` struct tags, which are
// registered with Viper so that each key can be overridden by its upper-case
// environment name (asaas.api_key becomes ASAAS_API_KEY).
//
// # Sections
//
//   - Server: listen port, API key, shutdown timeout
//   - Asaas: provider base URL, key, timeouts, retries, circuit breaker
//   - RateLimit: governor threshold, check policy, pacing, shared Redis state
//   - Sync: batch width, delays, retry of failed records
//   - Database: target store (postgres, mysql or sqlite) and statement retries
//   - Storage: optional S3/MinIO archive of run reports
//   - Log: level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
