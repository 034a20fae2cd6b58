package intent

import "github.com/specforge/specforge/ir"

// expectedOutcome selects the Outcome for id on op, per §4.2: HAPPY_PATH
// gets the first declared success (any returned value for functions); every
// negative intent selects a declared error status by category, falling back
// to 400, and functions (which signal failure via exceptions, not status
// codes) never carry a status.
func expectedOutcome(op *ir.Operation, id ID) Outcome {
	if id == HappyPath {
		if op.Kind.Tag == ir.KindTagFunction {
			return Outcome{AnyValue: true}
		}
		return Outcome{Status: op.FirstSuccessStatus()}
	}
	if op.Kind.Tag == ir.KindTagFunction {
		return Outcome{}
	}

	switch CategoryOf(id) {
	case CategoryResource:
		if status, ok := firstErrorStatusInRange(op, 404, 404); ok {
			return Outcome{Status: status}
		}
	default: // CategoryValidation, CategorySecurity
		if status, ok := firstErrorStatusInRange(op, 400, 422); ok {
			return Outcome{Status: status}
		}
	}
	return Outcome{Status: 400}
}

func firstErrorStatusInRange(op *ir.Operation, low, high int) (int, bool) {
	for _, e := range op.Errors {
		if e.Status >= low && e.Status <= high {
			return e.Status, true
		}
	}
	return 0, false
}
