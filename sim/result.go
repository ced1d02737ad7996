package sim

import "math/big"

// ExecutionResult is the observable outcome of one top-level call,
// including the failures of the asynchronous receipts it spawned.
type ExecutionResult struct {
	logs          []string
	promiseErrors []error
	gasBurnt      *big.Int
}

func newExecutionResult() *ExecutionResult {
	return &ExecutionResult{gasBurnt: new(big.Int)}
}

// IsOk reports whether the call and all of its receipts succeeded.
func (r *ExecutionResult) IsOk() bool {
	return len(r.promiseErrors) == 0
}

// PromiseErrors returns the failures surfaced by the call's receipts.
func (r *ExecutionResult) PromiseErrors() []error {
	return r.promiseErrors
}

// Logs returns the receipt trace of the call.
func (r *ExecutionResult) Logs() []string {
	return r.logs
}

// GasBurnt returns the execution overhead charged to the caller.
func (r *ExecutionResult) GasBurnt() *big.Int {
	return new(big.Int).Set(r.gasBurnt)
}

func (r *ExecutionResult) appendLog(line string) {
	r.logs = append(r.logs, line)
}

func (r *ExecutionResult) fail(err error) {
	r.promiseErrors = append(r.promiseErrors, err)
}
