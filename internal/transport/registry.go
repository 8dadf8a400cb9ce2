// internal/transport/registry.go
package transport

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"receipt-service/internal/protocol"
)

// Method selects a renderer and a transport for a print request
type Method string

const (
	MethodDialog    Method = "dialog"
	MethodDocument  Method = "document"
	MethodWireless  Method = "wireless"
	MethodNetworked Method = "networked"
	MethodSerial    Method = "serial"
	MethodUSB       Method = "usb"
)

// Validator rejects a destination before any transport work starts
type Validator func(dest Destination) error

// Route is one row of the dispatch table. Exactly one of Markup and Binary is set.
type Route struct {
	Method   Method
	Markup   MarkupTransport
	Binary   BinaryTransport
	Validate Validator
}

// IsBinary reports whether the route expects an ESC/POS payload
func (r Route) IsBinary() bool {
	return r.Binary != nil
}

// TransportName names the transport behind the route
func (r Route) TransportName() string {
	if r.Binary != nil {
		return r.Binary.Name()
	}
	if r.Markup != nil {
		return r.Markup.Name()
	}
	return ""
}

// Registry manages the method dispatch table
type Registry struct {
	routes map[Method]Route
	mu     sync.RWMutex
	logger *zap.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		routes: make(map[Method]Route),
		logger: logger,
	}
}

// RegisterMarkup binds a method to a markup transport
func (r *Registry) RegisterMarkup(method Method, t MarkupTransport, validate Validator) {
	r.register(Route{Method: method, Markup: t, Validate: validate})
}

// RegisterBinary binds a method to a binary transport
func (r *Registry) RegisterBinary(method Method, t BinaryTransport, validate Validator) {
	r.register(Route{Method: method, Binary: t, Validate: validate})
}

func (r *Registry) register(route Route) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.routes[route.Method] = route
	r.logger.Info("Transport registered",
		zap.String("method", string(route.Method)),
		zap.String("transport", route.TransportName()),
		zap.Bool("binary", route.IsBinary()),
	)
}

// Lookup returns the route of a method
func (r *Registry) Lookup(method Method) (Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	route, ok := r.routes[method]
	if !ok {
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
	return route, nil
}

// Methods lists the registered methods in name order
func (r *Registry) Methods() []Method {
	r.mu.RLock()
	defer r.mu.RUnlock()

	methods := make([]Method, 0, len(r.routes))
	for m := range r.routes {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i] < methods[j] })
	return methods
}

// RequireNetwork rejects a destination without a network printer address
func RequireNetwork(dest Destination) error {
	if dest.Network == nil || dest.Network.Host == "" {
		return ErrMissingTarget
	}
	if dest.Network.Port < 0 || dest.Network.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", dest.Network.Port)
	}
	return nil
}

// RequireSerial rejects a destination without a usable serial port
func RequireSerial(dest Destination) error {
	return protocol.ValidateSettings(protocol.KindSerial, protocol.Settings{Serial: dest.Serial})
}

// RequireUSB rejects a destination without a usable USB device id
func RequireUSB(dest Destination) error {
	return protocol.ValidateSettings(protocol.KindUSB, protocol.Settings{USB: dest.USB})
}
