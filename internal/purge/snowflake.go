package purge

import (
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/aatumaykin/bearobot/internal/constants"
)

// TimestampOf returns the creation time encoded in a Discord snowflake.
// The upper 42 bits hold milliseconds since the Discord epoch (2015-01-01).
func TimestampOf(id snowflake.ID) time.Time {
	return id.Time()
}

// BulkCutoff is the oldest creation time still accepted by bulk delete.
func BulkCutoff(now time.Time) time.Time {
	return now.Add(-constants.BulkDeleteMaxAge)
}

// AgeBucket classifies a candidate by which deletion path can remove it.
type AgeBucket int

const (
	// BulkEligible messages are younger than the bulk-delete cutoff.
	BulkEligible AgeBucket = iota
	// IndividualOnly messages must be deleted one request at a time.
	IndividualOnly
)

func (b AgeBucket) String() string {
	switch b {
	case BulkEligible:
		return "bulk"
	case IndividualOnly:
		return "single"
	default:
		return "unknown"
	}
}

// Classify puts id into BulkEligible when it was created strictly after
// now minus 14 days.
func Classify(id snowflake.ID, now time.Time) AgeBucket {
	if TimestampOf(id).After(BulkCutoff(now)) {
		return BulkEligible
	}
	return IndividualOnly
}

// Partition splits candidates into bulk and individual lists, keeping the
// input order inside each list.
func Partition(ids []snowflake.ID, now time.Time) (bulk, individual []snowflake.ID) {
	for _, id := range ids {
		if Classify(id, now) == BulkEligible {
			bulk = append(bulk, id)
		} else {
			individual = append(individual, id)
		}
	}
	return bulk, individual
}
