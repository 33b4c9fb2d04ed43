package memutils

// Validatable is anything that can check its own bookkeeping. DebugValidate runs the check
// and panics on failure when built with debug_mem_utils.
type Validatable interface {
	Validate() error
}
