package observability

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Notice is a user-visible, non-fatal message raised when a network
// operation fails. The session keeps running; the user may retry.
type Notice struct {
	Operation string
	Message   string
	Err       error
	At        time.Time
}

func (n Notice) String() string {
	if n.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", n.Operation, n.Message, n.Err)
	}
	return fmt.Sprintf("%s: %s", n.Operation, n.Message)
}

// Notifier receives notices.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notice) { f(n) }

// DiscardNotifier drops every notice.
var DiscardNotifier Notifier = NotifierFunc(func(Notice) {})

// WriterNotifier prints notices to a writer, one per line.
func WriterNotifier(w io.Writer) Notifier {
	var mu sync.Mutex
	return NotifierFunc(func(n Notice) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = fmt.Fprintf(w, "⚠️  %s\n", n)
	})
}

// NoticeLog collects notices in memory; views poll it to show banners.
type NoticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

// Notify implements Notifier.
func (l *NoticeLog) Notify(n Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, n)
}

// Drain returns the collected notices and clears the log.
func (l *NoticeLog) Drain() []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.notices
	l.notices = nil
	return out
}
