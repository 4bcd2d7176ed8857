package types

// Status classifies the outcome of a conversion.
type Status int

// Conversion outcomes.
const (
	StatusFailure Status = iota
	StatusSuccess
	StatusPartial // succeeded but the decomposition drops information
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusPartial:
		return "partial"
	default:
		return "failure"
	}
}

// Result is the uniform outcome of a dispatch-level conversion.
// Err is set exactly when Status is StatusFailure.
type Result struct {
	Status    Status
	Resources []Resource
	Reason    string
	Err       error
}

// Successful reports whether the conversion produced resources.
func (r Result) Successful() bool { return r.Status != StatusFailure }

// Incomplete reports whether re-packing Resources would lose information.
func (r Result) Incomplete() bool { return r.Status == StatusPartial }

// ResultOf builds a Result from a decomposition and its error.
func ResultOf(d Decomposition, err error) Result {
	if err != nil {
		return Result{Status: StatusFailure, Reason: err.Error(), Err: err}
	}
	if d.Incomplete {
		return Result{Status: StatusPartial, Resources: d.Resources, Reason: d.Reason}
	}
	return Result{Status: StatusSuccess, Resources: d.Resources}
}
