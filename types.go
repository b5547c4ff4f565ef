package gensession

// Navigator defines a public type used by gensession APIs.
//
// Navigator instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// The engine never renders anything itself; when a guard or a forced logout
// needs the user moved, it asks the Navigator. Current reports the location
// the user is on right now, To commands a move. Implementations must be safe
// for concurrent use: the expiry watcher calls To from a timer goroutine.
type Navigator interface {
	Current() string
	To(path string)
}

type noopNavigator struct{}

func (noopNavigator) Current() string { return "" }
func (noopNavigator) To(string)       {}
