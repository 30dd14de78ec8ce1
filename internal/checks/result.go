package checks

type resultKind int

const (
	resultVector resultKind = iota
	resultScalar
	resultError
)

// Result is the outcome of one check evaluation. It is a closed variant set:
// a per-element boolean vector, a single scalar boolean, or an evaluation
// error raised by the predicate itself.
type Result struct {
	kind   resultKind
	vector []bool
	scalar bool
	err    error
}

// VectorResult wraps a per-element boolean vector
func VectorResult(vector []bool) Result {
	return Result{kind: resultVector, vector: vector}
}

// ScalarResult wraps a single boolean verdict. A false scalar means every row
// in the checked selection fails.
func ScalarResult(ok bool) Result {
	return Result{kind: resultScalar, scalar: ok}
}

// ErrorResult wraps an error raised while evaluating the predicate
func ErrorResult(err error) Result {
	return Result{kind: resultError, err: err}
}

// IsVector reports whether the result is a per-element vector
func (r Result) IsVector() bool { return r.kind == resultVector }

// Vector returns the per-element verdicts of a vector result
func (r Result) Vector() []bool { return r.vector }

// IsScalar reports whether the result is a single boolean
func (r Result) IsScalar() bool { return r.kind == resultScalar }

// Scalar returns the verdict of a scalar result
func (r Result) Scalar() bool { return r.scalar }

// Err returns the evaluation error, or nil for boolean results
func (r Result) Err() error { return r.err }

// Passed reports total success: a true scalar, or a vector with no false entry
func (r Result) Passed() bool {
	switch r.kind {
	case resultScalar:
		return r.scalar
	case resultVector:
		for _, ok := range r.vector {
			if !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}
