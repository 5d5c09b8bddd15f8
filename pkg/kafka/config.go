package kafka

// Config holds the broker settings shared by the event producer and the
// history feed consumer. Credentials come from the environment.
type Config struct {
	ConsumerGroup string

	// SASL broker authentication.
	SASLMechanism string // "PLAIN" or "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	Brokers []string

	// TLS enables TLS on broker connections.
	TLS         bool
	SASLEnabled bool
}
