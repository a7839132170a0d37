package notifier

// Notifier represents a service for delivering alert messages
type Notifier interface {
	// Send delivers one message. A non-empty link is attached as an
	// inline "Open deal" button.
	Send(text, link string) error

	// Close releases any underlying resources
	Close() error
}
