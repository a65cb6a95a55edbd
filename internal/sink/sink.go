package sink

// Sink receives finished calendar artifacts. Writing the same filename
// twice replaces the earlier content.
type Sink interface {
	Name() string
	Write(filename string, data []byte) error
}
