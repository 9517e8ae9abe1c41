package purge

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Duration(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		wantErr bool
	}{
		{name: "zero", minutes: 0, wantErr: true},
		{name: "negative", minutes: -5, wantErr: true},
		{name: "lower bound", minutes: 1},
		{name: "default", minutes: 60},
		{name: "upper bound", minutes: 10080},
		{name: "above a week", minutes: 10081, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Validator{}.Validate(Request{Pattern: "spam", DurationMinutes: tt.minutes})
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, time.Duration(tt.minutes)*time.Minute, plan.Window())
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "Duration must be between 1 minute and 1 week (10080 minutes)", ve.Error())
		})
	}
}

func TestValidator_LowerConfiguredMax(t *testing.T) {
	_, err := Validator{MaxDurationMinutes: 1440}.Validate(Request{Pattern: "x", DurationMinutes: 1441})
	require.Error(t, err)
	assert.Equal(t, "Duration must be between 1 minute and 1440 minutes", err.Error())
}

func TestValidator_Pattern(t *testing.T) {
	_, err := Validator{}.Validate(Request{Pattern: "(unclosed", DurationMinutes: 60})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.True(t, strings.HasPrefix(ve.Reason, "Invalid regex pattern: "))
	assert.NotNil(t, errors.Unwrap(err))
}

func TestValidator_PlanMatches(t *testing.T) {
	plan, err := Validator{}.Validate(Request{ChannelID: "42", Pattern: `(?i)free\s+nitro`, DurationMinutes: 30})
	require.NoError(t, err)

	assert.Equal(t, "42", plan.ChannelID)
	assert.Equal(t, `(?i)free\s+nitro`, plan.Pattern)
	assert.True(t, plan.Matcher.MatchString("get FREE   Nitro here"))
	assert.False(t, plan.Matcher.MatchString("nitro is not free"))
	assert.Equal(t, testNow.Add(-30*time.Minute), plan.Threshold(testNow))
}

func TestValidator_EmptyPatternMatchesEverything(t *testing.T) {
	plan, err := Validator{}.Validate(Request{Pattern: "", DurationMinutes: 5})
	require.NoError(t, err)
	assert.True(t, plan.Matcher.MatchString("anything"))
}

func TestValidator_NormalizeContent(t *testing.T) {
	req := Request{Pattern: "spam", DurationMinutes: 60}
	fullwidth := "ｓｐａｍ"

	plain, err := Validator{}.Validate(req)
	require.NoError(t, err)
	assert.False(t, plain.Matcher.MatchString(fullwidth))

	normalized, err := Validator{NormalizeContent: true}.Validate(req)
	require.NoError(t, err)
	assert.True(t, normalized.Matcher.MatchString(fullwidth))
}

func TestValidationError_PermissionDenied(t *testing.T) {
	err := error(&ValidationError{Reason: "nope", Err: ErrPermissionDenied})
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, "nope", err.Error())
}
