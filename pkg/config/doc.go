// Package config loads typed configuration from environment variables.
//
// It wraps `github.com/joho/godotenv` and `github.com/caarlos0/env/v11`:
// dotenv files populate the process environment, then env.Parse fills any
// struct annotated with `env` and `envDefault` tags.
//
// # Usage
//
//	type ServerConfig struct {
//		Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
//		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
//	}
//
//	var cfg ServerConfig
//	config.MustLoad(&cfg)
//
// Options adjust a single call: WithPrefix namespaces the variables,
// WithEnvFiles loads specific dotenv files, and WithEnvironment parses from a
// map instead of the process environment, which keeps tests hermetic.
//
// # Error Handling
//
// Failures are joined with a package sentinel (ErrParsingConfig,
// ErrLoadingEnvFile, ErrNilPointer) so callers can use errors.Is.
package config
