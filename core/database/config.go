package database

// Config holds configuration for the database connection.
type Config struct {
	// Driver is the database driver (postgres, mysql, sqlite).
	Driver string `mapstructure:"driver" default:"postgres"`
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"5432"`
	// User is the database user.
	User string `mapstructure:"user" default:"postgres"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name, or the file path for sqlite.
	Name string `mapstructure:"name" default:"asaas"`
	// SSLMode is passed to postgres.
	SSLMode string `mapstructure:"ssl_mode" default:"disable"`
	// TimeoutSeconds bounds connection setup and I/O.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxOpenConns caps the pool size.
	MaxOpenConns int `mapstructure:"max_open_conns" default:"20"`
	// MaxRetries is the number of retries of a statement failing on a connection error.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// RetryBaseMs is the first backoff delay; it doubles on each retry.
	RetryBaseMs int `mapstructure:"retry_base_ms" default:"1000"`
	// RetryMaxMs caps the backoff delay.
	RetryMaxMs int `mapstructure:"retry_max_ms" default:"5000"`
}
