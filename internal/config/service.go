package config

type ServiceConfig struct {
	Name        string          `yaml:"name"`
	Environment string          `yaml:"environment"`
	Version     string          `yaml:"version"`
	Yuno        YunoConfig      `yaml:"yuno"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Webhook     WebhookConfig   `yaml:"webhook"`
}

type YunoConfig struct {
	BaseURL          string `yaml:"base_url"`
	PublicAPIKey     string `yaml:"public_api_key"`
	PrivateSecretKey string `yaml:"private_secret_key"`
	WebhookSecret    string `yaml:"webhook_secret"`
	AccountID        string `yaml:"account_id"`
}

type RateLimitConfig struct {
	Enabled bool     `yaml:"enabled"`
	Limit   int      `yaml:"limit"`
	Window  Duration `yaml:"window"`
}

type WebhookConfig struct {
	RetryInterval  Duration `yaml:"retry_interval"`
	RetryBatchSize int      `yaml:"retry_batch_size"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
}
