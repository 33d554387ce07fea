package cli

import (
	"os"
	"os/signal"
	"syscall"
)

// On Windows, Ctrl-C arrives as SIGINT and console close as SIGTERM.
var terminationSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
}

// NotifyTermination relays SIGINT and SIGTERM on the returned channel instead
// of letting them kill the process, until stop is called.
func NotifyTermination() (signals <-chan os.Signal, stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, terminationSignals...)
	return ch, func() { signal.Stop(ch) }
}
