package vulkan

import "github.com/vkngwrapper/grm/grm"

// Vulkan work is not bound to a thread, so every acquire hands out the same context
type context struct {
	backend *Backend
}

func (c context) Backend() grm.GraphicsBackend { return c.backend }
func (c context) Release()                     {}

// ContextProvider hands out contexts for a Backend
type ContextProvider struct {
	backend *Backend
}

var _ grm.ContextProvider = ContextProvider{}

func NewContextProvider(backend *Backend) ContextProvider {
	return ContextProvider{backend: backend}
}

func (p ContextProvider) AcquireContext(hint *grm.Resource) grm.GraphicsContext {
	return context{backend: p.backend}
}
