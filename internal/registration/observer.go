package registration

// Progress is reported after each seed retires.
type Progress struct {
	RunID string
	// Seed is the ID of the scan that just retired.
	Seed         int
	Unregistered int
	Registered   int
	Retired      int
	// Beacons is the number of distinct beacons placed so far.
	Beacons int
}

// Observer receives assembly events. Methods are called from the
// assembling goroutine and should return quickly.
type Observer interface {
	// MatchAttempted is called once per seed/candidate attempt.
	MatchAttempted(runID string, seed, candidate int, matched bool)
	// Progress is called after each seed retires.
	Progress(p Progress)
}

// Observers fans events out to several observers in order.
type Observers []Observer

func (obs Observers) MatchAttempted(runID string, seed, candidate int, matched bool) {
	for _, o := range obs {
		o.MatchAttempted(runID, seed, candidate, matched)
	}
}

func (obs Observers) Progress(p Progress) {
	for _, o := range obs {
		o.Progress(p)
	}
}

type nopObserver struct{}

func (nopObserver) MatchAttempted(string, int, int, bool) {}
func (nopObserver) Progress(Progress)                     {}
