// Package types defines the core system types.
package types

// Void is used for values in maps used as sets.
type Void struct{}

// uninitializedValue is the original value of an attribute that was never
// assigned or loaded. It is distinguishable from nil and from any value a
// caller could supply.
type uninitializedValue struct{}

func (uninitializedValue) String() string {
	return "#uninitialized"
}

// UninitializedValue is the sentinel original value of attributes that
// were never assigned or loaded.
var UninitializedValue any = uninitializedValue{}

// Memo is a write-once cell recording whether a value has been computed.
// The zero Memo is unset. A set Memo may hold nil, which is distinct from
// unset. Writes after the first are ignored, so memoization is idempotent,
// though not safe for concurrent use.
type Memo struct {
	set   bool
	value any
}

// Set records the value unless one was already recorded.
func (memo *Memo) Set(value any) {
	if memo.set {
		return
	}
	memo.set = true
	memo.value = value
}

// Get returns the recorded value, if any.
func (memo *Memo) Get() (value any, ok bool) {
	value = memo.value
	ok = memo.set
	return
}
