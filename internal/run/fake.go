package run

import "context"

// FakeRunner is a scripted Runner for tests.
//
// If RunFunc is set it handles every call. Otherwise Results are replayed
// in order, and calls beyond the script return a zero Result. Every
// invocation is recorded in Calls.
type FakeRunner struct {
	RunFunc func(ctx context.Context, inv Invocation) (Result, error)
	Results []Result
	Err     error

	Calls []Invocation
}

// Run records inv and replays the scripted response.
func (f *FakeRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	f.Calls = append(f.Calls, inv)

	if f.RunFunc != nil {
		return f.RunFunc(ctx, inv)
	}
	if f.Err != nil {
		return Result{}, f.Err
	}
	if len(f.Results) == 0 {
		return Result{}, nil
	}

	res := f.Results[0]
	f.Results = f.Results[1:]
	return res, nil
}
