package anchorfix

// Phase is a step of a run.
type Phase int

// The phases of a run, in order. Restore always runs, even after a failed phase.
const (
	PhaseValidate Phase = iota
	PhaseSample
	PhaseCorrect
	PhaseRestore
)

func (p Phase) String() string {
	switch p {
	case PhaseValidate:
		return "validate"
	case PhaseSample:
		return "sample"
	case PhaseCorrect:
		return "correct"
	case PhaseRestore:
		return "restore"
	default:
		return "unknown"
	}
}

// Observer receives progress as a run advances. Calls arrive on the goroutine running the fix.
type Observer interface {
	PhaseStarted(phase Phase, frames int)
	FrameDone(phase Phase, frame int)
	PhaseFinished(phase Phase, err error)
}

// NopObserver ignores all progress.
type NopObserver struct{}

// PhaseStarted does nothing.
func (NopObserver) PhaseStarted(Phase, int) {}

// FrameDone does nothing.
func (NopObserver) FrameDone(Phase, int) {}

// PhaseFinished does nothing.
func (NopObserver) PhaseFinished(Phase, error) {}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return NopObserver{}
	}
	return o
}
