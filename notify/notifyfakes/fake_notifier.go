package notifyfakes

import (
	"sync"

	"github.com/jrsteele09/go-booking-client/notify"
)

var _ notify.Notifier = (*FakeNotifier)(nil)

// Notification is one recorded Notify call.
type Notification struct {
	Kind    notify.Kind
	Message string
}

// FakeNotifier records notifications for assertions.
type FakeNotifier struct {
	notifications []Notification
	lock          sync.Mutex
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (fn *FakeNotifier) Notify(kind notify.Kind, message string) {
	fn.lock.Lock()
	defer fn.lock.Unlock()
	fn.notifications = append(fn.notifications, Notification{Kind: kind, Message: message})
}

// Notifications returns a copy of everything recorded so far.
func (fn *FakeNotifier) Notifications() []Notification {
	fn.lock.Lock()
	defer fn.lock.Unlock()
	out := make([]Notification, len(fn.notifications))
	copy(out, fn.notifications)
	return out
}
