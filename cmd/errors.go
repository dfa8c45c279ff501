package cmd

// UsageError reports a command line that cannot be run: the wrong number of
// arguments, an empty argument or an unparseable flag.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}
