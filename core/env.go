package kimi

// Environment is one scope in a chain ending at the global scope.
// Bindings can be added but never replaced within the same scope.
type Environment struct {
	name  string
	vars  map[string]Value
	outer *Environment
}

// NewEnvironment creates an empty scope. outer is nil for a root scope.
func NewEnvironment(name string, outer *Environment) *Environment {
	return &Environment{name: name, vars: make(map[string]Value), outer: outer}
}

func (e *Environment) Name() string { return e.name }

func (e *Environment) Outer() *Environment { return e.outer }

// Get looks name up in this scope, then in each outer scope in turn.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.outer {
		if v, ok := env.vars[name]; ok {
			return v, nil
		}
	}
	return Value{}, errorf(KindName, "Undefined variable: %s", name)
}

// Set binds name in this scope. Shadowing an outer binding is allowed;
// rebinding a name already bound here is not.
func (e *Environment) Set(name string, v Value) error {
	if _, ok := e.vars[name]; ok {
		return errorf(KindName, "Variable %s already exists in %s environment", name, e.name)
	}
	e.vars[name] = v
	return nil
}
