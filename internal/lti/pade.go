package lti

// Pade returns the first-order Pade approximation of a pure dead time
// e^(-theta*s):
//
//	(1 - theta/2 s) / (1 + theta/2 s)
//
// A non-positive theta yields the identity transfer function.
func Pade(theta float64) TF {
	if theta <= 0 {
		return New(Poly{1}, Poly{1})
	}
	return New(Poly{1, -theta / 2}, Poly{1, theta / 2})
}
