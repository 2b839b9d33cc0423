package workflow

// Step is one stage of the job-preparation wizard. Transitions are
// forward-only on explicit confirmation and backward-only on an explicit
// back action; the only exception is package generation, which auto-advances
// the session to StepExecution.
type Step int

const (
	// StepInput collects the receptor and ligand uploads.
	StepInput Step = iota + 1

	// StepPreparation collects the chemistry-preparation flags.
	StepPreparation

	// StepSearchRegion collects the grid box, search parameters, and the
	// optional engine path.
	StepSearchRegion

	// StepExecution is the terminal step: the package has been (or can be)
	// generated and a result log may be uploaded for parsing.
	StepExecution
)

var stepNames = map[Step]string{
	StepInput:        "input",
	StepPreparation:  "preparation",
	StepSearchRegion: "search_region",
	StepExecution:    "execution",
}

func (s Step) String() string {
	if n, ok := stepNames[s]; ok {
		return n
	}
	return "unknown"
}

// next returns the following step; ok is false at the terminal step.
func (s Step) next() (Step, bool) {
	if s >= StepInput && s < StepExecution {
		return s + 1, true
	}
	return s, false
}

// prev returns the preceding step; ok is false at the first step.
func (s Step) prev() (Step, bool) {
	if s > StepInput && s <= StepExecution {
		return s - 1, true
	}
	return s, false
}
