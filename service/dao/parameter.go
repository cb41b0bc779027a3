package dao

// Parameter is a named List criterion. Value is a string or []string.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a parameter; several values match any of them.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
