package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Assistant.JournalBuffer < 1 {
		return fmt.Errorf("assistant.journal_buffer must be >= 1 (got %d)", c.Assistant.JournalBuffer)
	}
	if c.Assistant.JournalWorkers < 1 {
		return fmt.Errorf("assistant.journal_workers must be >= 1 (got %d)", c.Assistant.JournalWorkers)
	}

	switch c.Mail.Strategy {
	case "log":
	case "smtp":
		if c.Mail.SMTPHost == "" || c.Mail.From == "" {
			return fmt.Errorf("mail: smtp strategy requires smtp_host and from")
		}
	default:
		return fmt.Errorf("mail.strategy must be \"log\" or \"smtp\" (got %q)", c.Mail.Strategy)
	}

	return nil
}
