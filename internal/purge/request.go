package purge

import (
	"errors"
	"time"

	"github.com/wasilibs/go-re2"
	"golang.org/x/text/unicode/norm"

	"github.com/aatumaykin/bearobot/internal/constants"
	"github.com/aatumaykin/bearobot/internal/messages"
)

// ErrPermissionDenied is wrapped by the ValidationError returned when the
// invoker lacks Manage Messages on the target channel.
var ErrPermissionDenied = errors.New("missing manage messages permission")

// ValidationError is a user-facing rejection of a purge request.
// Reason is safe to show to the invoker as-is.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Request is a purge invocation as it arrives from a command or schedule.
// An empty InvokerID marks a system-initiated run that skips the permission check.
type Request struct {
	GuildID         string
	ChannelID       string
	InvokerID       string
	Pattern         string
	DurationMinutes int
}

// Matcher reports whether message content matches a purge pattern.
type Matcher interface {
	MatchString(s string) bool
}

// Plan is a validated Request. It is immutable for the lifetime of one run.
type Plan struct {
	ChannelID       string
	Pattern         string
	DurationMinutes int
	Matcher         Matcher
}

// Window is how far back from now the scan reaches.
func (p *Plan) Window() time.Duration {
	return time.Duration(p.DurationMinutes) * time.Minute
}

// Threshold is the oldest creation time a message may have to be selected.
func (p *Plan) Threshold(now time.Time) time.Time {
	return now.Add(-p.Window())
}

// Validator turns a Request into a Plan.
type Validator struct {
	MaxDurationMinutes int
	NormalizeContent   bool
}

// Validate checks the duration bounds and compiles the pattern.
func (v Validator) Validate(req Request) (*Plan, error) {
	maxMinutes := v.MaxDurationMinutes
	if maxMinutes <= 0 {
		maxMinutes = constants.MaxPurgeDurationMinutes
	}

	if req.DurationMinutes < constants.MinPurgeDurationMinutes || req.DurationMinutes > maxMinutes {
		return nil, &ValidationError{Reason: messages.FormatInvalidDuration(maxMinutes)}
	}

	re, err := re2.Compile(req.Pattern)
	if err != nil {
		return nil, &ValidationError{Reason: messages.FormatInvalidPattern(err), Err: err}
	}

	var matcher Matcher = re
	if v.NormalizeContent {
		matcher = normalizingMatcher{inner: re}
	}

	return &Plan{
		ChannelID:       req.ChannelID,
		Pattern:         req.Pattern,
		DurationMinutes: req.DurationMinutes,
		Matcher:         matcher,
	}, nil
}

// normalizingMatcher folds compatibility characters (fullwidth letters,
// ligatures) before matching.
type normalizingMatcher struct {
	inner Matcher
}

func (m normalizingMatcher) MatchString(s string) bool {
	return m.inner.MatchString(norm.NFKC.String(s))
}
