package store

// Op constants map to backend command names for error context.
const (
	OpJSONSet = "JSON.SET"
	OpJSONGet = "JSON.GET"
	OpRPush   = "RPUSH"
	OpLRange  = "LRANGE"
	OpExists  = "EXISTS"
	OpSet     = "SET"
	OpPing    = "PING"
)

// Error wraps an underlying backend error with the operation name.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
