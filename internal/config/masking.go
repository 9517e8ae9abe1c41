package config

import (
	"strings"
)

// maskSecret маскирует секрет, оставляя только первые 4 и последние 4 символа
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}

	if len(secret) < 8 {
		return "***"
	}

	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}

// MaskToken hides a Discord bot token for logs. The first segment is the
// base64 bot ID and stays visible for diagnostics.
func MaskToken(token string) string {
	id, rest, ok := strings.Cut(token, ".")
	if !ok {
		return maskSecret(token)
	}
	return id + "." + maskSecret(rest)
}

// formatValidationError builds a ValidationError with the secret masked.
func formatValidationError(field, message, secret string) error {
	errorMsg := field + ": " + message
	if secret != "" {
		errorMsg += " (value: " + maskSecret(secret) + ")"
	}
	return &ValidationError{Field: field, Message: errorMsg}
}

// ValidationError представляет ошибку валидации с дополнительной информацией
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
