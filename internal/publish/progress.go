package publish

// Sink receives human-readable status messages while a run executes. Calls
// are synchronous and strictly ordered; the workflow never waits on or reads
// anything back from the sink. A UI driving itself from the sink should
// treat each call as the latest known state.
type Sink interface {
	Notify(message string)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(message string)

func (f SinkFunc) Notify(message string) { f(message) }

// MultiSink fans one message out to several sinks, preserving order.
type MultiSink []Sink

func (m MultiSink) Notify(message string) {
	for _, s := range m {
		if s != nil {
			s.Notify(message)
		}
	}
}

type nopSink struct{}

func (nopSink) Notify(string) {}
