package eventbus

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// EventBus dispatches events to subscribed handlers by argument type.
// Handlers are plain funcs; a handler is invoked when every published
// argument is assignable to its parameters.
type EventBus interface {
	Publish(args ...any)
	// PublishE is Publish for handlers returning an error; failures and
	// panics are joined into the returned error.
	PublishE(args ...any) error
	Subscribe(handler any)
	Unsubscribe(handler any)
	Clear()
	SubscribersCount() int
}

var (
	ErrNoSubscribers        = errors.New("eventbus: no matching subscribers")
	ErrInvalidHandlerReturn = errors.New("eventbus: invalid handler return signature")
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type bus struct {
	log      *logrus.Logger
	mu       sync.RWMutex
	handlers []any
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &bus{log: log}
}

// MatchSignature reports whether handler can be called with args.
func MatchSignature(handler any, args []any) bool {
	t := reflect.TypeOf(handler)
	if t == nil || t.Kind() != reflect.Func || t.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		param := t.In(i)
		if arg == nil {
			switch param.Kind() {
			case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func:
				continue
			default:
				return false
			}
		}
		if !reflect.TypeOf(arg).AssignableTo(param) {
			return false
		}
	}
	return true
}

func (b *bus) snapshot() []any {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]any, len(b.handlers))
	copy(out, b.handlers)
	return out
}

func values(handler any, args []any) []reflect.Value {
	t := reflect.TypeOf(handler)
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(t.In(i))
			continue
		}
		in[i] = reflect.ValueOf(arg)
	}
	return in
}

// call invokes one handler, converting a panic into an error.
func call(handler any, args []any) (out []reflect.Value, err error) {
	fn := reflect.ValueOf(handler)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("eventbus: handler %s panicked: %v", fn.Type(), r)
		}
	}()
	return fn.Call(values(handler, args)), nil
}

func (b *bus) Publish(args ...any) {
	handled := false
	for _, h := range b.snapshot() {
		if !MatchSignature(h, args) {
			continue
		}
		if _, err := call(h, args); err != nil {
			if b.log != nil {
				b.log.WithField("args", fmt.Sprintf("%+v", args)).Error(err.Error())
			}
			continue
		}
		handled = true
	}
	if !handled && b.log != nil {
		b.log.Warnf("eventbus.Publish: no matching subscribers for %d args of types %s", len(args), typeNames(args))
	}
}

func (b *bus) PublishE(args ...any) error {
	handled := false
	var errs []error
	for _, h := range b.snapshot() {
		if !MatchSignature(h, args) {
			continue
		}
		handled = true
		out, err := call(h, args)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		switch {
		case len(out) == 0:
		case len(out) == 1 && out[0].Type() == errorType:
			if !out[0].IsNil() {
				errs = append(errs, out[0].Interface().(error))
			}
		default:
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidHandlerReturn, reflect.TypeOf(h)))
		}
	}
	if !handled {
		return ErrNoSubscribers
	}
	return errors.Join(errs...)
}

func (b *bus) Subscribe(handler any) {
	if t := reflect.TypeOf(handler); t == nil || t.Kind() != reflect.Func {
		panic("eventbus: handler must be a function")
	}
	b.mu.Lock()
	b.handlers = append(b.handlers, handler)
	b.mu.Unlock()
}

// Unsubscribe removes the first handler with the same function pointer.
func (b *bus) Unsubscribe(handler any) {
	ptr := reflect.ValueOf(handler).Pointer()
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, h := range b.handlers {
		if reflect.ValueOf(h).Pointer() == ptr {
			b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
			return
		}
	}
}

func (b *bus) Clear() {
	b.mu.Lock()
	b.handlers = nil
	b.mu.Unlock()
}

func (b *bus) SubscribersCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

func typeNames(args []any) string {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = fmt.Sprintf("%T", a)
	}
	return fmt.Sprint(names)
}
