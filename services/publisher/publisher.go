package publisher

// Publisher represents an optional secondary sink for alert events,
// feeding downstream consumers independent of the notifier.
type Publisher interface {
	// Publish appends one alert event to the stream
	Publish(message []byte) error

	// Trim trims the stream to the configured maximum length
	Trim() error

	// Close closes the publisher connection
	Close() error
}
