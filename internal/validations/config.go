package validations

// Config holds the process-scope message rendering settings. It is read
// at render time, so toggles apply to subsequent renders.
type Config struct {
	// FullMessageFormatChain enables the per-model format key chain for
	// full messages. When false, only the global errors.format key and
	// the literal "%{attribute} %{message}" template apply.
	FullMessageFormatChain bool
}

// DefaultConfig is the process-scope configuration, with the format chain
// enabled.
var DefaultConfig = Config{FullMessageFormatChain: true}
