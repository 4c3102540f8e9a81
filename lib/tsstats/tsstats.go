package tsstats

import (
	"time"

	tlmanager "github.com/uol/timelinemanager"
)

//
// Statistics shortcuts shared by the keyspace and the persistence layers.
// @author: rnojiri
//

// Collector - the subset of the timeline manager used to record statistics
type Collector interface {
	FlattenCountIncN(caller string, metric string, tags ...interface{})
	FlattenMaxN(caller string, value float64, metric string, tags ...interface{})
}

var _ Collector = (*tlmanager.Instance)(nil)

// NoOp - discards every statistic
type NoOp struct{}

// FlattenCountIncN - does nothing
func (NoOp) FlattenCountIncN(caller string, metric string, tags ...interface{}) {}

// FlattenMaxN - does nothing
func (NoOp) FlattenMaxN(caller string, value float64, metric string, tags ...interface{}) {}

// OrNoOp - returns the collector or a NoOp one if it is nil
func OrNoOp(c Collector) Collector {

	if c == nil {
		return NoOp{}
	}

	return c
}

// Milliseconds - converts a duration to fractional milliseconds
func Milliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / float64(time.Millisecond)
}
