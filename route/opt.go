package route

import (
	"github.com/xy-planning-network/signpost/http/resp"
	"github.com/xy-planning-network/signpost/logger"
)

// A BuilderOpt configures a Builder.
type BuilderOpt func(*Builder)

// WithLogger sets the Logger reporting bound and skipped routes.
func WithLogger(l logger.Logger) BuilderOpt {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithPolicy sets how failing descriptors are handled.
// Invalid policies are ignored.
func WithPolicy(p Policy) BuilderOpt {
	return func(b *Builder) {
		if p.Valid() == nil {
			b.policy = p
		}
	}
}

// WithResponder sets the Responder page Views write through.
func WithResponder(rp *resp.Responder) BuilderOpt {
	return func(b *Builder) {
		if rp != nil {
			b.rp = rp
		}
	}
}
