// Package lti provides linear time-invariant system primitives.
//
// The package defines the fundamental types for continuous-time
// transfer-function manipulation:
//
//   - [Poly]: polynomial in s with ascending coefficients
//   - [TF]: rational transfer function with series, parallel and
//     unity-feedback composition
//   - [Pade]: first-order Pade approximation of a pure dead time
//   - [Roots]: polynomial root finding (Durand-Kerner iteration)
//   - [StateSpace]: controllable-canonical realization for simulation
//
// # Example
//
//	g := lti.New(lti.Poly{1}, lti.Poly{1, 1})   // 1/(s+1)
//	cl := g.Feedback()                          // g/(1+g)
//	ss, _ := cl.Realize()
//
// All values are immutable once constructed; composition methods return
// new transfer functions.
package lti
