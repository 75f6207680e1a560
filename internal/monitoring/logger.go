package monitoring

import (
	"log"

	"github.com/banshee-data/scanalign/internal/registration"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// ProgressLogger writes assembly progress through Logf. With Verbose set it
// also logs every seed/candidate attempt.
type ProgressLogger struct {
	Verbose bool
}

// MatchAttempted implements registration.Observer.
func (l ProgressLogger) MatchAttempted(runID string, seed, candidate int, matched bool) {
	if !l.Verbose {
		return
	}
	outcome := "no overlap"
	if matched {
		outcome = "registered"
	}
	Logf("[Assembler] run=%s seed=%d candidate=%d: %s", runID, seed, candidate, outcome)
}

// Progress implements registration.Observer.
func (l ProgressLogger) Progress(p registration.Progress) {
	Logf("[Assembler] run=%s seed=%d retired: %d unregistered, %d registered, %d retired, %d beacons",
		p.RunID, p.Seed, p.Unregistered, p.Registered, p.Retired, p.Beacons)
}
