package offscreen

import "testing"

// resetProcess gives the test a fresh runtime slot and restores one when it
// finishes, so every test can exercise a first Start.
func resetProcess(t *testing.T) {
	t.Helper()
	proc = newProcess()
	t.Cleanup(func() { proc = newProcess() })
}
