package odsheet

import (
	"go.uber.org/zap"

	"github.com/tsawler/odsheet/ods"
)

// LoadOptions holds the configuration of a Loader.
type LoadOptions struct {
	dumpXML bool
	lenient bool
	logger  *zap.Logger // nil means no logging
}

// defaultOptions returns the default load options.
func defaultOptions() LoadOptions {
	return LoadOptions{
		dumpXML: false,
		lenient: false,
		logger:  nil,
	}
}

// clone creates a copy of LoadOptions. The logger is shared.
func (o LoadOptions) clone() LoadOptions {
	return LoadOptions{
		dumpXML: o.dumpXML,
		lenient: o.lenient,
		logger:  o.logger,
	}
}

// readOptions converts the options for the ods package.
func (o LoadOptions) readOptions() *ods.ReadOptions {
	ro := ods.DefaultReadOptions()
	ro.DumpXML = o.dumpXML
	ro.Lenient = o.lenient
	if o.logger != nil {
		ro.Logger = o.logger
	}
	return &ro
}
