// Package boundary is the text-level call surface of dhlib.
//
// Every integer crosses the boundary as base-10 text. Results come back as
// *Buffer values owned by the Arena that produced them. A Buffer is released
// exactly once, either explicitly with Release or by Arena.Close; a second
// Release returns ErrDoubleRelease and reading a released Buffer returns
// ErrReleased. Inputs are validated before the engine is called, and a failed
// call leaves no live buffers behind.
//
//	err := boundary.Scope(eng, func(a *boundary.Arena) error {
//		p, g, err := a.GenerateParameters(2048)
//		...
//	})
package boundary
