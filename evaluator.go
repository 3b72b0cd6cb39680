package paillier

import "math/big"

// Evaluator performs homomorphic operations directly on ciphertexts.
// It needs only the public modulus n, never the private key, so it can
// run on an untrusted compute party. Safe for concurrent use.
type Evaluator struct {
	n  *big.Int
	n2 *big.Int
}

// NewEvaluator creates an evaluator for ciphertexts under modulus n.
func NewEvaluator(n *big.Int) *Evaluator {
	return &Evaluator{
		n:  n,
		n2: new(big.Int).Mul(n, n),
	}
}

// Add returns a ciphertext that decrypts to the sum of the plaintexts
// of e1 and e2, computed as (e1 * e2) mod n².
func (ev *Evaluator) Add(e1, e2 *big.Int) *big.Int {
	c := new(big.Int).Mul(e1, e2)
	return c.Mod(c, ev.n2)
}

// MulPlain returns a ciphertext that decrypts to the plaintext of x
// multiplied by the known scalar m, computed as x^m mod n².
//
// A negative m requires x to be invertible modulo n², which holds for
// every valid ciphertext; MulPlain returns nil if it does not.
func (ev *Evaluator) MulPlain(x, m *big.Int) *big.Int {
	return new(big.Int).Exp(x, m, ev.n2)
}

// Sub returns a ciphertext that decrypts to the plaintext of e1 minus
// the plaintext of e2 (mod n), computed as (e1 * e2^-1) mod n².
//
// Sub fails with ErrNoInverse when e2 is not invertible modulo n²,
// which can only happen if e2 is not a valid ciphertext under this
// modulus.
func (ev *Evaluator) Sub(e1, e2 *big.Int) (*big.Int, error) {
	inv, err := modInverse(e2, ev.n2)
	if err != nil {
		return nil, err
	}
	c := inv.Mul(e1, inv)
	return c.Mod(c, ev.n2), nil
}
