package host

import (
	"sync"
	"sync/atomic"

	"github.com/berth-web/berth/pkg/message"
)

// Selector picks the virtual host owning a request.
//
// Selection policy is explicit registration order: among multiple
// matching hosts (for example several catch-all hosts), the first
// registered wins. The optional default host receives requests no
// registered host accepts.
type Selector struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[selectorState]
}

type selectorState struct {
	hosts []*VirtualHost
	def   *VirtualHost
}

// NewSelector creates an empty selector.
func NewSelector() *Selector {
	s := &Selector{}
	s.snapshot.Store(&selectorState{})
	return s
}

// Add registers a host. Registration order is selection order.
func (s *Selector) Add(vh *VirtualHost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snapshot.Load()
	s.snapshot.Store(&selectorState{
		hosts: append(append([]*VirtualHost(nil), cur.hosts...), vh),
		def:   cur.def,
	})
}

// SetDefault sets the fallback host for unmatched requests.
func (s *Selector) SetDefault(vh *VirtualHost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snapshot.Load()
	s.snapshot.Store(&selectorState{hosts: cur.hosts, def: vh})
}

// Hosts returns the registered hosts in registration order.
func (s *Selector) Hosts() []*VirtualHost {
	return s.snapshot.Load().hosts
}

// Select returns the first registered host whose pattern set accepts
// the request, the default host when none does, or nil.
func (s *Selector) Select(req *message.Request, info message.ServerInfo) *VirtualHost {
	state := s.snapshot.Load()
	for _, vh := range state.hosts {
		if vh.Matches(req, info) {
			return vh
		}
	}
	return state.def
}
