package sync

// Phase names for item outcomes.
const (
	PhaseSymlink = "symlink"
	PhaseCopy    = "copy"
	PhaseInstall = "install"
)

// ItemStatus is the outcome of one sync item.
type ItemStatus string

const (
	StatusLinked    ItemStatus = "linked"
	StatusCopied    ItemStatus = "copied"
	StatusInstalled ItemStatus = "installed"
	StatusSkipped   ItemStatus = "skipped"
	StatusFailed    ItemStatus = "failed"
)

// Item records what happened to one directory, file, or install command.
type Item struct {
	Phase  string
	Name   string
	Status ItemStatus
	Detail string
}

// Result aggregates per-item outcomes of one sync run. Item failures are
// warnings; they never abort the run. Callers render the summary.
type Result struct {
	Items []Item
}

func (r *Result) add(phase, name string, status ItemStatus, detail string) {
	r.Items = append(r.Items, Item{Phase: phase, Name: name, Status: status, Detail: detail})
}

// Count returns how many items ended with the given status.
func (r *Result) Count(status ItemStatus) int {
	n := 0
	for _, item := range r.Items {
		if item.Status == status {
			n++
		}
	}
	return n
}

// Failures returns the failed items, for warning display.
func (r *Result) Failures() []Item {
	var failed []Item
	for _, item := range r.Items {
		if item.Status == StatusFailed {
			failed = append(failed, item)
		}
	}
	return failed
}
