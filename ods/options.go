package ods

import "go.uber.org/zap"

// ReadOptions configures how a document is read.
type ReadOptions struct {
	// Logger receives debug records about the read. Nil disables logging.
	Logger *zap.Logger

	// DumpXML logs every XML event at debug level. It does not change the
	// result of the read.
	DumpXML bool

	// Lenient accepts documents that end inside an open element. Objects
	// whose closing tag was never seen are dropped and everything complete
	// up to that point is kept. By default such documents fail with
	// ErrTruncated.
	Lenient bool
}

// DefaultReadOptions returns the default options.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		Logger: zap.NewNop(),
	}
}

// clone returns a copy with a usable logger.
func (o *ReadOptions) clone() ReadOptions {
	c := DefaultReadOptions()
	if o == nil {
		return c
	}
	c.DumpXML = o.DumpXML
	c.Lenient = o.Lenient
	if o.Logger != nil {
		c.Logger = o.Logger
	}
	return c
}
