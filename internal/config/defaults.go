package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4280,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/finboard",
			},
		},
		Providers: ProvidersConfig{
			Stocks: ProviderConfig{
				BaseURL: "https://www.alphavantage.co",
			},
			News: ProviderConfig{
				BaseURL: "https://newsapi.org",
			},
			Rates: ProviderConfig{
				BaseURL: "https://open.er-api.com",
			},
		},
		Logging: LoggingConfig{
			Level:   "info",
			Outputs: []string{"console", "file"},
		},
	}
}
