// Package notify holds the out-of-band completion channels: system
// notifications, the notification permission gate and the alarm.
package notify

// Permission mirrors the three states of a notification grant.
type Permission int

const (
	Undecided Permission = iota
	Granted
	Denied
)

func (p Permission) String() string {
	switch p {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	default:
		return "undecided"
	}
}

// Notification is a titled alert. OnClick runs when the user acknowledges it.
// Notifications sharing a Tag replace each other instead of stacking.
type Notification struct {
	Title   string
	Body    string
	Icon    string
	Tag     string
	OnClick func()
}
