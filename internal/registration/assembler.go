package registration

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/scanalign/internal/geom"
)

// Options configures an Assembler.
type Options struct {
	// MinOverlap is the shared-beacon threshold. Zero or less selects MinOverlap.
	MinOverlap int
	// Workers bounds the candidates matched concurrently against one seed.
	// Zero or less means runtime.GOMAXPROCS(0).
	Workers int
	// Reference is the index (not ID) of the scan that anchors the global frame.
	Reference int
	// MaxMatcherCalls caps seed/candidate attempts. Zero or less means
	// len(scans)², which a correct assembly never exceeds.
	MaxMatcherCalls int
	// Observer receives progress events. Nil disables them.
	Observer Observer
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{MinOverlap: MinOverlap}
}

// Assembler registers scans into the frame of a reference scan.
type Assembler struct {
	opts     Options
	matcher  *Matcher
	observer Observer
}

// NewAssembler returns an Assembler configured by opts.
func NewAssembler(opts Options) *Assembler {
	obs := opts.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Assembler{
		opts: opts,
		// Concurrency comes from the candidate fan-out, so each match
		// walks its rotations sequentially.
		matcher:  NewMatcher(opts.MinOverlap, 1),
		observer: obs,
	}
}

// Result is a completed assembly.
type Result struct {
	RunID string
	// Registrations is indexed like the input scans.
	Registrations []Registration
	// MatcherCalls counts seed/candidate attempts.
	MatcherCalls int
}

// Summary reduces the registrations to beacon and distance statistics.
func (r *Result) Summary() Summary {
	return Aggregate(r.Registrations)
}

// scanState is one arena slot. Scans refer to each other only by index.
type scanState struct {
	status Status
	reg    Registration
}

// Assemble registers every scan or fails. Each registered scan serves as a
// seed exactly once: it is matched against every scan still unregistered at
// that moment, then retires. Newly registered scans queue behind it. When
// the queue drains with scans left over, Assemble returns a *FailureError.
//
// Candidates for one seed are matched concurrently, but outcomes are applied
// by this goroutine in index order, so a scan is registered at most once and
// the result does not depend on scheduling. ctx is checked between seeds.
func (a *Assembler) Assemble(ctx context.Context, scans []Scan) (*Result, error) {
	n := len(scans)
	if n == 0 {
		return nil, ErrNoScans
	}
	ref := a.opts.Reference
	if ref < 0 || ref >= n {
		return nil, fmt.Errorf("%w: index %d with %d scans", ErrInvalidReference, ref, n)
	}
	budget := a.opts.MaxMatcherCalls
	if budget <= 0 {
		budget = n * n
	}

	runID := uuid.NewString()
	arena := make([]scanState, n)
	arena[ref] = scanState{status: Registered, reg: referenceRegistration(scans[ref])}
	placed := geom.NewPointSet(arena[ref].reg.Points)
	counts := map[Status]int{Unregistered: n - 1, Registered: 1}

	work := []int{ref}
	calls := 0
	for len(work) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seed := work[0]
		work = work[1:]

		candidates := make([]int, 0, counts[Unregistered])
		for j := range arena {
			if arena[j].status == Unregistered {
				candidates = append(candidates, j)
			}
		}
		if calls+len(candidates) > budget {
			return nil, fmt.Errorf("%w: %d calls, budget %d", ErrMatcherBudgetExceeded, calls+len(candidates), budget)
		}
		calls += len(candidates)

		outcomes := a.matchCandidates(arena[seed].reg.Points, scans, candidates)

		seedID := scans[seed].ID
		for k, j := range candidates {
			al := outcomes[k]
			a.observer.MatchAttempted(runID, seedID, scans[j].ID, al != nil)
			if al == nil {
				continue
			}
			arena[j] = scanState{
				status: Registered,
				reg: Registration{
					ScanID:   scans[j].ID,
					Rotation: al.Rotation,
					Origin:   al.Offset,
					Points:   al.Points,
					Seed:     seedID,
					Overlap:  al.Overlap,
				},
			}
			counts[Unregistered]--
			counts[Registered]++
			placed.AddAll(al.Points)
			work = append(work, j)
		}

		arena[seed].status = Retired
		counts[Registered]--
		counts[Retired]++
		a.observer.Progress(Progress{
			RunID:        runID,
			Seed:         seedID,
			Unregistered: counts[Unregistered],
			Registered:   counts[Registered],
			Retired:      counts[Retired],
			Beacons:      placed.Len(),
		})
	}

	if counts[Unregistered] > 0 {
		failed := make([]int, 0, counts[Unregistered])
		for j, st := range arena {
			if st.status == Unregistered {
				failed = append(failed, scans[j].ID)
			}
		}
		return nil, &FailureError{Reference: scans[ref].ID, Unregistered: failed}
	}

	regs := make([]Registration, n)
	for j, st := range arena {
		regs[j] = st.reg
	}
	return &Result{RunID: runID, Registrations: regs, MatcherCalls: calls}, nil
}

// matchCandidates aligns each candidate against the seed's global-frame
// points. The returned slice is parallel to candidates; nil means no match.
func (a *Assembler) matchCandidates(seedPoints []geom.Point, scans []Scan, candidates []int) []*Alignment {
	reference := NewReference(seedPoints)
	outcomes := make([]*Alignment, len(candidates))

	var g errgroup.Group
	g.SetLimit(a.opts.Workers)
	for k, j := range candidates {
		g.Go(func() error {
			if al, ok := a.matcher.Match(reference, scans[j].Points); ok {
				outcomes[k] = &al
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail
	return outcomes
}
