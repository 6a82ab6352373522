package process

import "testing"

// PID 0 and negative values must be ignored: on Unix, kill(-0) targets the
// caller's own process group.
func TestKillProcessGroup_IgnoresNonPositivePID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(0)
	KillProcessGroup(-1)
}

func TestKillProcessGroup_UnknownPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}
