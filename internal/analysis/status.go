package analysis

// Status is the lifecycle of one analysis request.
type Status int

// Analysis states.
const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is what a view shows for analysis. Result is set only on Success
// and Err only on Error.
type State struct {
	Status Status  `json:"status"`
	Result *Result `json:"result,omitempty"`
	Err    string  `json:"error,omitempty"`
}

// Busy reports whether a request is in flight.
func (s State) Busy() bool {
	return s.Status == Loading
}
