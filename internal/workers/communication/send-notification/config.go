package sendnotification

import "time"

type Config struct {
	Timeout      time.Duration
	FromEmail    string
	TopicARN     string
	EmailEnabled bool
	SMSEnabled   bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
