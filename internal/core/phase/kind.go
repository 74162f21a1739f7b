package phase

import "fmt"

// Kind names a phase of the work/break cycle.
type Kind string

const (
	KindPreWork  Kind = "pre_work"
	KindWorking  Kind = "working"
	KindPostWork Kind = "post_work"
	KindBreak    Kind = "break"
	KindComplete Kind = "complete"
)

// allowedTransitions mirrors the methods defined on the phase types.
var allowedTransitions = map[Kind]map[Kind]struct{}{
	KindPreWork: {
		KindWorking: {},
	},
	KindWorking: {
		KindWorking:  {},
		KindPostWork: {},
		KindPreWork:  {},
	},
	KindPostWork: {
		KindBreak: {},
	},
	KindBreak: {
		KindBreak:    {},
		KindComplete: {},
	},
	KindComplete: {},
}

// AllKinds returns every phase kind in cycle order.
func AllKinds() []Kind {
	return []Kind{KindPreWork, KindWorking, KindPostWork, KindBreak, KindComplete}
}

// String returns the kind identifier.
func (kind Kind) String() string {
	return string(kind)
}

// Label returns a display name for the kind.
func (kind Kind) Label() string {
	switch kind {
	case KindPreWork:
		return "Ready"
	case KindWorking:
		return "Working"
	case KindPostWork:
		return "Work done"
	case KindBreak:
		return "Break"
	case KindComplete:
		return "Complete"
	default:
		return string(kind)
	}
}

// IsValid reports whether kind is one of the known phase kinds.
func (kind Kind) IsValid() bool {
	_, ok := allowedTransitions[kind]
	return ok
}

// IsTimed reports whether phases of this kind carry a start time and period.
func (kind Kind) IsTimed() bool {
	return kind == KindWorking || kind == KindBreak
}

// IsMarker reports whether phases of this kind carry no data.
func (kind Kind) IsMarker() bool {
	return kind.IsValid() && !kind.IsTimed()
}

// IsValidTransition reports whether the cycle allows moving from one kind to another.
func IsValidTransition(from, to Kind) bool {
	allowed, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// ValidateTransition returns an error when the move from one kind to another is not allowed.
func ValidateTransition(from, to Kind) error {
	if !IsValidTransition(from, to) {
		return fmt.Errorf("invalid phase transition from %q to %q", from, to)
	}
	return nil
}
