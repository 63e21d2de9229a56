//go:build !linux

package notify

// New returns a silent notifier; desktop notifications are only wired
// up on linux.
func New() (Notifier, error) {
	return stubNotifier{}, nil
}

type stubNotifier struct{}

func (stubNotifier) Scrobbled(_, _, _ string) error { return nil }
