package testharness

// StdoutProducer drives a Synthesizer's WriteStdout hook the way an
// external standard-output producer would, without depending on the
// vexfat package directly -- callers pass in whatever Write method their
// Synthesizer exposes.
type StdoutProducer struct {
	Write func(p []byte)
}

// NewStdoutProducer wraps write (typically a *vexfat.Synthesizer's
// WriteStdout method) as a StdoutProducer.
func NewStdoutProducer(write func(p []byte)) *StdoutProducer {
	return &StdoutProducer{Write: write}
}

// Println writes s followed by a newline, the shape most test fixtures
// producing log lines want.
func (p *StdoutProducer) Println(s string) {
	p.Write(append([]byte(s), '\n'))
}
