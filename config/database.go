package config

// DBConfig locates the PostgreSQL instance backing all tenant data.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"comandero"`
	Password string `env:"PASSWORD" envDefault:"comandero"`
	Name     string `env:"NAME"     envDefault:"comandero"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // 'require' in production

	// RunMigrationsOnStart applies pending schema migrations during boot.
	// Turn off when migrations are rolled out separately.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig locates the Redis instance holding sessions and cache entries.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}
