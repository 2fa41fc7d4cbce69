package recorder

// NoopRecorder discards all records. Used when no database is configured or
// the configured one fails to open.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordUpdate(*PriceRecord) error      { return nil }
func (n *NoopRecorder) RecordTrendEvent(*TrendEvent) error   { return nil }
func (n *NoopRecorder) RecordRejected(*RejectedUpdate) error { return nil }
func (n *NoopRecorder) Close() error                         { return nil }
