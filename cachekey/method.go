package cachekey

// Method identifies the storage method used for a cache operation.
// Each method canonicalizes keys slightly differently, so a lookup may
// need to re-derive a key under every method before declaring a miss.
type Method int

const (
	// MethodStandard is the plain write/read path.
	MethodStandard Method = iota
	// MethodContextAware is the context-enriched write/read path.
	// Keys derived under it carry the "enhanced-" prefix.
	MethodContextAware
)

// String returns the string representation of the method.
func (m Method) String() string {
	switch m {
	case MethodStandard:
		return "standard"
	case MethodContextAware:
		return "context-aware"
	default:
		return "unknown"
	}
}

// Methods returns all supported storage methods in fallback order.
func Methods() []Method {
	return []Method{MethodStandard, MethodContextAware}
}

// MarshalText encodes the method as its string name.
func (m Method) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText decodes a method from its string name. Unknown names
// decode as MethodStandard.
func (m *Method) UnmarshalText(text []byte) error {
	switch string(text) {
	case "context-aware":
		*m = MethodContextAware
	default:
		*m = MethodStandard
	}
	return nil
}
