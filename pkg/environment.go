package lox

import "sort"

// Environment is one scope in the lexical scope chain. Only the global
// environment has no enclosing scope.
type Environment struct {
	values    map[string]Value
	enclosing *Environment
}

// NewEnvironment creates a scope nested under enclosing, or a global scope
// when enclosing is nil.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		values:    make(map[string]Value),
		enclosing: enclosing,
	}
}

// Enclosing exposes the parent scope (nil when global).
func (e *Environment) Enclosing() *Environment {
	return e.enclosing
}

// Define binds name in this scope, replacing any previous binding here.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get resolves name, searching outward through the scope chain.
func (e *Environment) Get(name Token) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if v, ok := env.values[name.Lexeme]; ok {
			return v, nil
		}
	}

	return nil, undefinedVariable(name)
}

// Assign overwrites the binding in the innermost scope that already holds
// name. It never creates a binding.
func (e *Environment) Assign(name Token, value Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = value
			return nil
		}
	}

	return undefinedVariable(name)
}

// Names returns the names bound in this scope, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for k := range e.values {
		names = append(names, k)
	}
	sort.Strings(names)

	return names
}

func undefinedVariable(name Token) *RuntimeError {
	return newRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}
