package paillier

import (
	"fmt"
	"math/big"
)

// Decryptor decrypts ciphertexts and computation responses with a
// private key. It is safe for concurrent use.
type Decryptor struct {
	sk *PrivateKey
}

// NewDecryptor creates a decryptor for the given private key.
func NewDecryptor(sk *PrivateKey) *Decryptor {
	return &Decryptor{sk: sk}
}

// Decrypt recovers the plaintext of a ciphertext in [0, n²).
//
// The plaintext is L(c^lambda mod n²) * mu mod n, with L(u) = (u-1)/n;
// the division is exact for any valid ciphertext under this key.
func (dec *Decryptor) Decrypt(c *big.Int) *big.Int {
	sk := dec.sk
	u := new(big.Int).Exp(c, sk.Lambda, sk.N2)
	l := lFunc(u, sk.N)
	m := l.Mul(l, sk.Mu)
	return m.Mod(m, sk.N)
}

// DecryptResult decrypts the payload of a computation response.
//
// Error responses are never decryptable: they yield a ComputationError
// carrying the server's message, so a failed computation cannot be
// mistaken for a plaintext.
func (dec *Decryptor) DecryptResult(resp Response) (*big.Int, error) {
	switch r := resp.(type) {
	case *AddResponse:
		return dec.Decrypt(r.Result), nil
	case *MulResponse:
		return dec.Decrypt(r.Result), nil
	case *SubResponse:
		return dec.Decrypt(r.Result), nil
	case *ErrorResponse:
		return nil, &ComputationError{Message: r.Message}
	default:
		return nil, fmt.Errorf("paillier: unsupported response type %T", resp)
	}
}
