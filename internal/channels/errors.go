// Package channels holds transport-neutral types shared by chat connectors.
package channels

import (
	"errors"
	"fmt"
	"time"

	"github.com/aatumaykin/bearobot/internal/logger"
)

// ErrorDetails - универсальный интерфейс для детализации ошибок каналов
type ErrorDetails interface {
	// Error возвращает текстовое описание ошибки
	Error() string

	// IsRetryable указывает, имеет ли смысл повтор запроса
	IsRetryable() bool

	// RetryAfter возвращает задержку, запрошенную платформой
	RetryAfter() time.Duration

	// LogFields возвращает поля для структурированного логирования
	LogFields() []logger.Field
}

// DiscordErrorDetails describes a failed Discord REST call.
type DiscordErrorDetails struct {
	Operation     string        // e.g. "bulk_delete", "delete_message"
	ChannelID     string        // target channel
	StatusCode    int           // HTTP status (403, 404, 429, 5xx)
	Code          int           // Discord JSON error code, 0 if absent
	Description   string        // message returned by Discord
	RetryAfterDur time.Duration // from Retry-After, if present
	Timestamp     time.Time
	Err           error // original transport error
}

func (d *DiscordErrorDetails) Error() string {
	if d.Code != 0 {
		return fmt.Sprintf("discord %s: HTTP %d (code %d): %s", d.Operation, d.StatusCode, d.Code, d.Description)
	}
	return fmt.Sprintf("discord %s: HTTP %d: %s", d.Operation, d.StatusCode, d.Description)
}

func (d *DiscordErrorDetails) Unwrap() error {
	return d.Err
}

// IsRetryable проверяет, можно ли повторить запрос
func (d *DiscordErrorDetails) IsRetryable() bool {
	return d.StatusCode == 429 || (d.StatusCode >= 500 && d.StatusCode < 600)
}

func (d *DiscordErrorDetails) RetryAfter() time.Duration {
	if d.RetryAfterDur > 0 {
		return d.RetryAfterDur
	}
	if d.StatusCode >= 500 && d.StatusCode < 600 {
		return 5 * time.Second
	}
	return 0
}

func (d *DiscordErrorDetails) LogFields() []logger.Field {
	return []logger.Field{
		{Key: "operation", Value: d.Operation},
		{Key: "channel_id", Value: d.ChannelID},
		{Key: "status_code", Value: d.StatusCode},
		{Key: "discord_code", Value: d.Code},
		{Key: "error_description", Value: d.Description},
		{Key: "retryable", Value: d.IsRetryable()},
	}
}

// DetailsOf extracts ErrorDetails from anywhere in err's chain.
func DetailsOf(err error) (ErrorDetails, bool) {
	var details ErrorDetails
	if errors.As(err, &details) {
		return details, true
	}
	return nil, false
}

// LogFieldsOf returns the details' log fields, or nil for plain errors.
func LogFieldsOf(err error) []logger.Field {
	if details, ok := DetailsOf(err); ok {
		return details.LogFields()
	}
	return nil
}
