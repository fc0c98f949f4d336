package bsp

import "log"

// Sink receives diagnostic messages from the layout core. Implementations
// must never block or panic; messages are purely observational and all
// reported conditions have already been absorbed by the caller.
type Sink interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NewLogSink returns a Sink that writes through the standard logger.
func NewLogSink() Sink {
	return logSink{}
}

type logSink struct{}

func (logSink) Infof(format string, args ...any) {
	log.Printf(format, args...)
}

func (logSink) Warnf(format string, args ...any) {
	log.Printf("Warning: "+format, args...)
}

func (logSink) Errorf(format string, args ...any) {
	log.Printf("Error: "+format, args...)
}

// Discard is a Sink that drops everything.
var Discard Sink = discardSink{}

type discardSink struct{}

func (discardSink) Infof(string, ...any)  {}
func (discardSink) Warnf(string, ...any)  {}
func (discardSink) Errorf(string, ...any) {}
