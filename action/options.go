package action

import "time"

// DispatchOption configures Action construction via New. A store's
// Dispatch takes no options; they are applied when the Action is built.
type DispatchOption interface {
	applyDispatch(*dispatchOptions)
}

type dispatchOptions struct {
	context      Context
	highPriority bool
}

// WithContext seeds the action's metadata, trace id and source from ctx.
func WithContext(ctx Context) DispatchOption { return contextOption{ctx} }

type contextOption struct{ context Context }

func (o contextOption) applyDispatch(opts *dispatchOptions) { opts.context = o.context }

// WithMeta merges meta into the dispatch context's metadata.
func WithMeta(meta map[string]any) DispatchOption { return metaOption{meta} }

type metaOption struct{ meta map[string]any }

func (o metaOption) applyDispatch(opts *dispatchOptions) {
	if opts.context.Meta == nil {
		opts.context.Meta = make(map[string]any, len(o.meta))
	}
	for k, v := range o.meta {
		opts.context.Meta[k] = v
	}
}

// WithTrace sets the dispatch's trace id.
func WithTrace(traceID string) DispatchOption { return traceOption{traceID} }

type traceOption struct{ traceID string }

func (o traceOption) applyDispatch(opts *dispatchOptions) { opts.context.TraceID = o.traceID }

// WithSource sets the dispatch's source identifier.
func WithSource(source string) DispatchOption { return sourceOption{source} }

type sourceOption struct{ source string }

func (o sourceOption) applyDispatch(opts *dispatchOptions) { opts.context.Source = o.source }

// High marks the action as high-priority (spec §4.1): the dispatcher drains
// it ahead of any normal-priority action already queued.
func High() DispatchOption { return highPriorityOption{} }

type highPriorityOption struct{}

func (highPriorityOption) applyDispatch(opts *dispatchOptions) { opts.highPriority = true }

// WithTimestamp overrides the dispatch time recorded on the action. Mainly
// useful for tests that need deterministic ordering assertions.
func WithTimestamp(t time.Time) DispatchOption { return timestampOption{t} }

type timestampOption struct{ t time.Time }

func (o timestampOption) applyDispatch(opts *dispatchOptions) { opts.context.Time = o.t }
