package simplex

type Status int

const (
	Unsolved Status = iota
	Optimal
	Unbounded
	Infeasible
	IterationLimitExceeded
)

func (s Status) String() string {
	switch s {
	case Unsolved:
		return "unsolved"
	case Optimal:
		return "optimal"
	case Unbounded:
		return "unbounded"
	case Infeasible:
		return "infeasible"
	case IterationLimitExceeded:
		return "iteration limit exceeded"
	}
	return "unknown"
}

// Terminal reports whether s is the outcome of a finished solve
func (s Status) Terminal() bool {
	return s != Unsolved
}

type Phase int

const (
	Phase1Feasibility Phase = iota + 1
	Phase2Optimizing
)

func (p Phase) String() string {
	switch p {
	case Phase1Feasibility:
		return "phase 1"
	case Phase2Optimizing:
		return "phase 2"
	}
	return "not started"
}
