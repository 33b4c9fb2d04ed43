package softgpu

import (
	"github.com/vkngwrapper/grm/grm"
	"sync/atomic"
)

// Context is a grm.GraphicsContext for a Backend
type Context struct {
	provider *ContextProvider
	released atomic.Bool
}

var _ grm.GraphicsContext = &Context{}

func (c *Context) Backend() grm.GraphicsBackend {
	return c.provider.backend
}

func (c *Context) Release() {
	if !c.released.CompareAndSwap(false, true) {
		panic("softgpu context released twice")
	}
	c.provider.active.Add(-1)
}

// ContextProvider hands out contexts for a single Backend. It can be switched off to
// simulate a lost device, in which case AcquireContext returns nil.
type ContextProvider struct {
	backend     *Backend
	unavailable atomic.Bool
	acquired    atomic.Int32
	active      atomic.Int32
}

var _ grm.ContextProvider = &ContextProvider{}

func NewContextProvider(backend *Backend) *ContextProvider {
	return &ContextProvider{backend: backend}
}

func (p *ContextProvider) AcquireContext(hint *grm.Resource) grm.GraphicsContext {
	if p.unavailable.Load() {
		return nil
	}

	p.acquired.Add(1)
	p.active.Add(1)
	return &Context{provider: p}
}

// SetAvailable controls whether AcquireContext succeeds
func (p *ContextProvider) SetAvailable(available bool) {
	p.unavailable.Store(!available)
}

// Acquired returns the total number of contexts handed out
func (p *ContextProvider) Acquired() int { return int(p.acquired.Load()) }

// Active returns the number of contexts that have not been released
func (p *ContextProvider) Active() int { return int(p.active.Load()) }
