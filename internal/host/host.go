// Package host is the export table a host runtime calls into. Host-side
// conventions stop here: the core only ever sees Invoker.
package host

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"flightparse/internal/config"
)

// Invoker is the capability a host runtime can call.
type Invoker interface {
	Invoke() (string, error)
}

// ErrorKind classifies a rejected call for the host.
type ErrorKind string

const (
	KindParse      ErrorKind = "parse"
	KindValidation ErrorKind = "validation"
	KindLaunch     ErrorKind = "launch"
	KindInternal   ErrorKind = "internal"
)

// Response is the outcome of one call: resolved with Value, or rejected
// with Err.
type Response struct {
	Name  string
	Value string
	Err   error
	Kind  ErrorKind
	Field string // offending field for parse and validation errors
}

// Resolved reports whether the call succeeded.
func (r Response) Resolved() bool {
	return r.Err == nil
}

// Registry maps exported names to invokers.
type Registry struct {
	mu      sync.RWMutex
	exports map[string]Invoker
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{exports: make(map[string]Invoker)}
}

// Export registers inv under name.
func (r *Registry) Export(name string, inv Invoker) error {
	if name == "" {
		return errors.New("export name must not be empty")
	}
	if inv == nil {
		return fmt.Errorf("export %q: nil invoker", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.exports[name]; dup {
		return fmt.Errorf("export %q: already registered", name)
	}
	r.exports[name] = inv
	return nil
}

// Names lists exported names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.exports))
	for n := range r.exports {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Call invokes the export registered under name.
func (r *Registry) Call(name string) Response {
	r.mu.RLock()
	inv, ok := r.exports[name]
	r.mu.RUnlock()

	if !ok {
		return Response{
			Name: name,
			Err:  fmt.Errorf("no export named %q (exported: %s)", name, strings.Join(r.Names(), ", ")),
			Kind: KindInternal,
		}
	}

	value, err := inv.Invoke()
	if err != nil {
		kind, field := Classify(err)
		return Response{Name: name, Err: err, Kind: kind, Field: field}
	}
	return Response{Name: name, Value: value}
}

// Classify maps a core error onto an ErrorKind and the field it names.
func Classify(err error) (ErrorKind, string) {
	var perr *config.ParseError
	if errors.As(err, &perr) {
		return KindParse, perr.Field
	}

	var verr *config.ValidationError
	if errors.As(err, &verr) {
		return KindValidation, verr.Field
	}

	var lerr *config.LaunchError
	if errors.As(err, &lerr) {
		return KindLaunch, ""
	}

	return KindInternal, ""
}
