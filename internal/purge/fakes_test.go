package purge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

// discordEpochMs is 2015-01-01T00:00:00Z in Unix milliseconds.
const discordEpochMs = 1420070400000

// idAt builds a snowflake whose timestamp is t. seq keeps IDs unique when
// several messages share a millisecond.
func idAt(t time.Time, seq uint64) snowflake.ID {
	return snowflake.ID(uint64(t.UnixMilli()-discordEpochMs)<<22 | (seq & 0xFFF))
}

// history builds n messages newest-first, one second apart, starting at
// newest. content(i) decides each message body.
func history(newest time.Time, n int, content func(i int) string) []Message {
	msgs := make([]Message, n)
	for i := range n {
		at := newest.Add(-time.Duration(i) * time.Second)
		msgs[i] = Message{ID: idAt(at, uint64(i)), Content: content(i), CreatedAt: at}
	}
	return msgs
}

type fetchCall struct {
	channelID string
	before    snowflake.ID
	limit     int
}

// fakeFetcher serves a newest-first history the way the platform pages it.
type fakeFetcher struct {
	msgs  []Message
	err   error
	errAt int // fail on this call number (1-based), 0 = never
	calls []fetchCall
}

func (f *fakeFetcher) FetchBefore(_ context.Context, channelID string, before snowflake.ID, limit int) ([]Message, error) {
	f.calls = append(f.calls, fetchCall{channelID: channelID, before: before, limit: limit})
	if f.err != nil && (f.errAt == 0 || f.errAt == len(f.calls)) {
		return nil, f.err
	}

	start := 0
	if before != 0 {
		start = len(f.msgs)
		for i, m := range f.msgs {
			if m.ID < before {
				start = i
				break
			}
		}
	}
	end := min(start+limit, len(f.msgs))
	return append([]Message(nil), f.msgs[start:end]...), nil
}

// fakeStrategy records delete requests and throttles without sleeping.
type fakeStrategy struct {
	failBatch  map[int]bool          // batch index -> fail
	failSingle map[snowflake.ID]bool // id -> fail
	cancelOn   int                   // cancel via throttle error after this many throttles, 0 = never

	batches   [][]snowflake.ID
	singles   []snowflake.ID
	throttles []ThrottleKind
}

func (s *fakeStrategy) DeleteBatch(_ context.Context, _ string, ids []snowflake.ID) error {
	idx := len(s.batches)
	s.batches = append(s.batches, append([]snowflake.ID(nil), ids...))
	if s.failBatch[idx] {
		return errors.New("bulk delete rejected")
	}
	return nil
}

func (s *fakeStrategy) DeleteOne(_ context.Context, _ string, id snowflake.ID) error {
	s.singles = append(s.singles, id)
	if s.failSingle[id] {
		return errors.New("unknown message")
	}
	return nil
}

func (s *fakeStrategy) Throttle(_ context.Context, kind ThrottleKind) error {
	s.throttles = append(s.throttles, kind)
	if s.cancelOn > 0 && len(s.throttles) >= s.cancelOn {
		return context.Canceled
	}
	return nil
}

func (s *fakeStrategy) count(kind ThrottleKind) int {
	n := 0
	for _, k := range s.throttles {
		if k == kind {
			n++
		}
	}
	return n
}

type deleteProgress struct {
	done  int
	total int
}

type recordingReporter struct {
	scans    []ScanStats
	deleting []int
	deletes  []deleteProgress
}

func (r *recordingReporter) ScanProgress(_ context.Context, stats ScanStats) {
	r.scans = append(r.scans, stats)
}

func (r *recordingReporter) Deleting(_ context.Context, total int) {
	r.deleting = append(r.deleting, total)
}

func (r *recordingReporter) DeleteProgress(_ context.Context, done, total int) {
	r.deletes = append(r.deletes, deleteProgress{done: done, total: total})
}

// fakeStatus is both Responder and StatusMessage.
type fakeStatus struct {
	mu           sync.Mutex
	replies      []string
	edits        []string
	replyErr     error
	failProgress bool // reject edits that are not a final summary
	failSummary  bool
}

func (s *fakeStatus) Reply(_ context.Context, content string) (StatusMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replyErr != nil {
		return nil, s.replyErr
	}
	s.replies = append(s.replies, content)
	return s, nil
}

func (s *fakeStatus) Edit(_ context.Context, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := strings.HasPrefix(content, "Purge completed")
	if summary && s.failSummary {
		return errors.New("unknown message")
	}
	if !summary && s.failProgress {
		return errors.New("rate limited")
	}
	s.edits = append(s.edits, content)
	return nil
}

func (s *fakeStatus) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.edits) == 0 {
		return ""
	}
	return s.edits[len(s.edits)-1]
}

type fakeGuard struct {
	allowed bool
	err     error
	calls   int
}

func (g *fakeGuard) CanManageMessages(_ context.Context, _, _ string) (bool, error) {
	g.calls++
	return g.allowed, g.err
}
