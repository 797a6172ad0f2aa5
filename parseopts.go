package exprfold

import "github.com/sirupsen/logrus"

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsecfg) parsecfg
}

type (
	logopt    struct{ log *logrus.Entry }
	depthopt  int
	strictopt bool
)

// parsecfg holds general data for parsing. It is also a ParseOption.
type parsecfg struct {
	// log receives a trace of every token folded into a builder.
	log *logrus.Entry
	// maxDepth is the deepest nesting of groups and calls allowed, or
	// unlimited if it is not positive.
	maxDepth int
	// strict indicates that identifiers which start like numbers must parse
	// as numbers.
	strict bool
}

var defaultcfg = parsecfg{log: logrus.WithField("component", "exprfold")}

func newParseConfig(opts []ParseOption) *parsecfg {
	p := defaultcfg
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	return &p
}

// Logger sets the log entry used to trace parsing. Each token is logged at
// trace level along with the expression parsed before it.
func Logger(log *logrus.Entry) ParseOption {
	return logopt{log}
}

func (o logopt) parseOption(p parsecfg) parsecfg {
	if o.log != nil {
		p.log = o.log
	}
	return p
}

// MaxDepth limits how deeply parentheses and function calls may nest. Parsing
// a bracket that would nest deeper than n fails with a *DepthError. If n is
// not positive, there is no limit, which is also the default.
func MaxDepth(n int) ParseOption {
	return depthopt(n)
}

func (o depthopt) parseOption(p parsecfg) parsecfg {
	p.maxDepth = int(o)
	return p
}

// StrictNumbers makes finalization reject identifiers that begin with a digit
// or a dot but are not valid numbers, e.g. "3.4.5" or "2x". By default such
// identifiers are variable names.
func StrictNumbers() ParseOption {
	return strictopt(true)
}

func (o strictopt) parseOption(p parsecfg) parsecfg {
	p.strict = bool(o)
	return p
}

// ParsingPreset combines several options into one. A preset replaces the
// effect of any options before it, and options after it override it.
func ParsingPreset(opts ...ParseOption) ParseOption {
	return newParseConfig(opts)
}

func (o *parsecfg) parseOption(p parsecfg) parsecfg {
	return *o
}
