package apps

// ArgumentError reports bad command line arguments.
type ArgumentError struct {
	msg string
}

func NewArgumentError(msg string) *ArgumentError {
	return &ArgumentError{msg}
}

func (err *ArgumentError) Error() string {
	return "invalid arguments: " + err.msg
}
