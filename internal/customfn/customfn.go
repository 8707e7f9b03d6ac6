// Package customfn demonstrates extending the builtin function registry via
// Runtime's FnDispatcher option, the way internal/template/functions.go once
// added a uuid() helper to a text/template.FuncMap.
package customfn

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jacoelho/jmespath/internal/interp"
	"github.com/jacoelho/jmespath/internal/value"
)

// ErrArity is returned when uuid() is called with arguments.
var ErrArity = errors.New("uuid(): takes no arguments")

// uuidDispatcher wraps a Dispatcher, adding a zero-argument uuid() function
// that returns a random v4 identifier, and otherwise delegating to next.
type uuidDispatcher struct {
	next interp.Dispatcher
}

// WithUUID returns a Dispatcher that adds uuid() on top of next.
func WithUUID(next interp.Dispatcher) interp.Dispatcher {
	if next == nil {
		next = interp.DefaultRegistry
	}
	return &uuidDispatcher{next: next}
}

func (d *uuidDispatcher) Call(name string, args []value.Value) (value.Value, error) {
	if name == "uuid" {
		if len(args) != 0 {
			return nil, fmt.Errorf("%w: got %d", ErrArity, len(args))
		}
		return value.String(uuid.New().String()), nil
	}
	return d.next.Call(name, args)
}
