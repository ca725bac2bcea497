package service

// Status receives user-facing phase reporting from the services. The CLI
// renders it as colored status lines; tests capture it; a nil Status is
// replaced by a silent one.
type Status interface {
	// Phasef announces a phase that is starting.
	Phasef(format string, args ...interface{})

	// Successf reports a completed step.
	Successf(format string, args ...interface{})

	// Warnf reports a non-fatal problem the run continues past.
	Warnf(format string, args ...interface{})

	// Infof carries supporting detail (captured tool output, hints).
	Infof(format string, args ...interface{})
}

// noopStatus discards all reporting.
type noopStatus struct{}

func (noopStatus) Phasef(format string, args ...interface{})   {}
func (noopStatus) Successf(format string, args ...interface{}) {}
func (noopStatus) Warnf(format string, args ...interface{})    {}
func (noopStatus) Infof(format string, args ...interface{})    {}

// orStatusNoop returns status, or the silent implementation when nil.
func orStatusNoop(status Status) Status {
	if status == nil {
		return noopStatus{}
	}
	return status
}
