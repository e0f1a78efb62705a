package functions

import "fmt"

// UnknownFunctionError reports a call to a name the provider does not
// resolve.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// InvalidArityError reports a call with the wrong number of arguments.
type InvalidArityError struct {
	Name     string
	Expected string
	Got      int
}

func (e *InvalidArityError) Error() string {
	return fmt.Sprintf("function %q expects %s arguments, got %d", e.Name, e.Expected, e.Got)
}

// InvalidArgumentError reports an argument of an unsupported type or
// value.
type InvalidArgumentError struct {
	Name    string
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("function %q: %s", e.Name, e.Message)
}
