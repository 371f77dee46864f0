package types

import "fmt"

// These are the codes for the conditions the library can fail with.
const (
	// CodeMissingAttribute is writing a value onto an unknown attribute slot.
	CodeMissingAttribute = "attribute.missing"
	// CodeInvalidValue is assigning a value its type rejects.
	CodeInvalidValue = "attribute.invalidValue"
	// CodeRange is serializing a numeric value outside its byte-width range.
	CodeRange = "casting.range"
	// CodeUnknownType is looking up an unregistered type name.
	CodeUnknownType = "casting.unknownType"
)

// These are context-free instances of the coded errors, for use as
// errors.Is targets.
var (
	ErrMissingAttribute = Error{Code: CodeMissingAttribute}
	ErrInvalidValue     = Error{Code: CodeInvalidValue}
	ErrRange            = Error{Code: CodeRange}
	ErrUnknownType      = Error{Code: CodeUnknownType}
)

type Error struct {
	Code    string
	Context map[string]any
}

func (err Error) Error() string {
	return fmt.Sprintf("%+v: %+v", err.Code, err.Context)
}

// Is matches errors by code, ignoring context.
func (err Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Code == err.Code
}

func NewError(code string, args ...any) Error {
	n := len(args)
	if n%2 != 0 {
		panic("Invalid error context args")
	}
	err := Error{Code: code, Context: make(map[string]any, n/2)}
	for i := 0; i < n; i += 2 {
		s, ok := args[i].(string)
		if !ok {
			panic("Invalid error context args")
		}
		err.Context[s] = args[i+1]
	}
	return err
}
