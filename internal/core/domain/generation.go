package domain

// GenerationStatus describes how a generation call concluded.
type GenerationStatus int

const (
	// GenerationOK means the endpoint returned generated text.
	GenerationOK GenerationStatus = iota

	// GenerationDegraded means the endpoint was unreachable. The caller
	// is expected to substitute a fallback answer; this is not an error.
	GenerationDegraded
)

// Generation is the typed outcome of a generation call.
// Transport or protocol failures other than unreachability are returned
// as errors alongside a zero Generation, never encoded in Status.
type Generation struct {
	// Status distinguishes a real completion from a degraded one.
	Status GenerationStatus

	// Text is the generated text. Empty when Status is GenerationDegraded.
	Text string
}
