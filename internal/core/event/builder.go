package event

import (
	"maps"
	"slices"
	"time"
)

// Builder assembles one ErrorEvent for one report
// It is request-local and not safe for concurrent use
type Builder struct {
	exc         ExceptionInfo
	release     string
	ts          time.Time
	contexts    Contexts
	user        UserIdentity
	breadcrumbs []Breadcrumb
	extra       map[string]any
}

// NewBuilder returns an empty builder
func NewBuilder() *Builder {
	return &Builder{extra: make(map[string]any, len(ExtraKeys))}
}

// Exception sets the single exception
func (b *Builder) Exception(e ExceptionInfo) *Builder { b.exc = e; return b }

// Release sets the release string
func (b *Builder) Release(r string) *Builder { b.release = r; return b }

// Timestamp sets the event time
func (b *Builder) Timestamp(t time.Time) *Builder { b.ts = t; return b }

// Device sets the device context
func (b *Builder) Device(d DeviceContext) *Builder { b.contexts.Device = d; return b }

// OS sets the os context
func (b *Builder) OS(o OSContext) *Builder { b.contexts.OS = o; return b }

// Runtime sets the runtime context
func (b *Builder) Runtime(r RuntimeContext) *Builder { b.contexts.Runtime = r; return b }

// App sets the app context
func (b *Builder) App(a AppContext) *Builder { b.contexts.App = a; return b }

// User sets the user identity
func (b *Builder) User(u UserIdentity) *Builder { b.user = u; return b }

// Breadcrumb appends one breadcrumb, preserving order
func (b *Builder) Breadcrumb(c Breadcrumb) *Builder {
	b.breadcrumbs = append(b.breadcrumbs, c)
	return b
}

// Extra sets one named extra attribute
func (b *Builder) Extra(key string, v any) *Builder { b.extra[key] = v; return b }

// Build returns an event that shares no memory with the builder
func (b *Builder) Build() ErrorEvent {
	exc := b.exc
	if exc.Stacktrace != nil {
		st := StackTrace{Frames: slices.Clone(exc.Stacktrace.Frames)}
		exc.Stacktrace = &st
	}
	return ErrorEvent{
		Exception:   []ExceptionInfo{exc},
		Release:     b.release,
		Timestamp:   b.ts,
		SDK:         SDK{Name: SDKName, Version: SDKVersion},
		Platform:    Platform,
		Level:       Level,
		Contexts:    b.contexts,
		User:        b.user,
		Breadcrumbs: slices.Clone(b.breadcrumbs),
		Extra:       maps.Clone(b.extra),
	}
}
