// Package nav provides the navigation path each tab keeps.
package nav

// Stack is an ordered path of destinations. The zero value is an empty
// stack positioned at the root.
type Stack[T any] struct {
	path []T
}

// Push navigates to d.
func (s *Stack[T]) Push(d T) {
	s.path = append(s.path, d)
}

// Pop goes back one step. It reports false when already at the root.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.path) == 0 {
		return zero, false
	}
	d := s.path[len(s.path)-1]
	s.path = s.path[:len(s.path)-1]
	return d, true
}

// PopToRoot clears the path.
func (s *Stack[T]) PopToRoot() {
	s.path = s.path[:0]
}

// Top returns the current destination, or false at the root.
func (s *Stack[T]) Top() (T, bool) {
	var zero T
	if len(s.path) == 0 {
		return zero, false
	}
	return s.path[len(s.path)-1], true
}

func (s *Stack[T]) Len() int { return len(s.path) }

// Path returns a copy of the path from root to top.
func (s *Stack[T]) Path() []T {
	return append([]T(nil), s.path...)
}
