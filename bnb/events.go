package bnb

// EventKind identifies a search event.
type EventKind int

const (
	// EventNodeSolved fires after a node's relaxation has been solved.
	EventNodeSolved EventKind = iota

	// EventNodePruned fires when a popped node is discarded; see Event.Reason.
	EventNodePruned

	// EventNodeBranched fires when a popped node spawns its two children.
	EventNodeBranched

	// EventIncumbent fires when the incumbent (and global lower bound) improves.
	EventIncumbent

	// EventBounds fires once per iteration with the recorded bound pair.
	EventBounds
)

// String returns a short lower-case label, used as a metrics label.
func (k EventKind) String() string {
	switch k {
	case EventNodeSolved:
		return "solved"
	case EventNodePruned:
		return "pruned"
	case EventNodeBranched:
		return "branched"
	case EventIncumbent:
		return "incumbent"
	case EventBounds:
		return "bounds"
	default:
		return "unknown"
	}
}

// PruneReason tells why a node was discarded.
type PruneReason int

const (
	// PruneNone is the zero value for events that are not prunes.
	PruneNone PruneReason = iota

	// PruneInfeasible: the relaxation has no feasible point.
	PruneInfeasible

	// PruneUnbounded: the relaxation is unbounded.
	PruneUnbounded

	// PruneInteger: the relaxation is already integral (optimality pruning).
	PruneInteger

	// PruneGap: the node's local upper−lower gap is below Eps.
	PruneGap

	// PruneDominated: the node cannot beat the incumbent (Options.BoundPruning).
	PruneDominated
)

// String returns a short lower-case label, used as a metrics label.
func (r PruneReason) String() string {
	switch r {
	case PruneNone:
		return "none"
	case PruneInfeasible:
		return "infeasible"
	case PruneUnbounded:
		return "unbounded"
	case PruneInteger:
		return "integer"
	case PruneGap:
		return "gap"
	case PruneDominated:
		return "dominated"
	default:
		return "unknown"
	}
}

// Event is delivered to an Observer. Bounds are in the engine's internal
// maximization form.
type Event struct {
	Kind      EventKind
	Iteration int
	NodeID    int
	Depth     int
	Reason    PruneReason
	Objective float64
	Upper     float64
	Lower     float64
	QueueLen  int
}

// Observer receives search events synchronously on the solving goroutine.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) { f(ev) }
