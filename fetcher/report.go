package fetcher

import "github.com/dimension-gateway/mmcpack"

const (
	StatusInstalled = "installed"
	StatusSkipped   = "skipped"
	StatusFailed    = "failed"
)

// Result is the outcome of processing a single record.
type Result struct {
	Mod    mmcpack.Mod
	Status string
	Err    error
}

// Report collects per-record outcomes of a fetch run.
type Report struct {
	Results []Result
}

// Summary counts the results by status.
func (r *Report) Summary() (installed, skipped, failed int) {
	for _, res := range r.Results {
		switch res.Status {
		case StatusInstalled:
			installed++
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
		}
	}
	return installed, skipped, failed
}

// Failed returns the results of the records that failed.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			failed = append(failed, res)
		}
	}
	return failed
}
