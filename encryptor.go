package paillier

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// maxNonceAttempts bounds the rejection-sampling loop when drawing an
// encryption nonce. For any realistic modulus the first draw succeeds;
// the cap only exists so a pathological modulus fails loudly instead of
// spinning forever.
const maxNonceAttempts = 128

// Encryptor encrypts plaintexts under a public key. It never needs the
// private key and is safe for concurrent use.
type Encryptor struct {
	pk *PublicKey
}

// NewEncryptor creates an encryptor for the given public key.
func NewEncryptor(pk *PublicKey) *Encryptor {
	return &Encryptor{pk: pk}
}

// Encrypt encrypts msg with a fresh random nonce drawn from
// crypto/rand. msg must lie in [0, n).
func (enc *Encryptor) Encrypt(msg *big.Int) (*big.Int, error) {
	if msg.Sign() < 0 || msg.Cmp(enc.pk.N) >= 0 {
		return nil, ErrPlaintextOutOfRange
	}
	r, err := enc.nonce()
	if err != nil {
		return nil, err
	}
	return enc.EncryptWithNonce(msg, r), nil
}

// EncryptWithNonce encrypts msg with an explicit nonce r. The caller is
// responsible for r being in [2, n²] and coprime to n²; passing a fixed
// r makes encryption deterministic, which tests rely on.
//
// The ciphertext is (g^msg mod n²) * (r^n mod n²) mod n².
func (enc *Encryptor) EncryptWithNonce(msg, r *big.Int) *big.Int {
	n2 := enc.pk.N2
	k1 := new(big.Int).Exp(enc.pk.G, msg, n2)
	k2 := new(big.Int).Exp(r, enc.pk.N, n2)
	c := k1.Mul(k1, k2)
	return c.Mod(c, n2)
}

// nonce draws r uniformly from [2, n²] with gcd(r, n²) == 1, rejecting
// and retrying non-coprime draws up to maxNonceAttempts times.
func (enc *Encryptor) nonce() (*big.Int, error) {
	n2 := enc.pk.N2
	upper := new(big.Int).Sub(n2, one) // rand.Int draws from [0, upper)

	gcd := new(big.Int)
	for i := 0; i < maxNonceAttempts; i++ {
		r, err := rand.Int(rand.Reader, upper)
		if err != nil {
			return nil, fmt.Errorf("draw nonce: %w", err)
		}
		r.Add(r, big.NewInt(2)) // shift into [2, n²]

		if gcd.GCD(nil, nil, r, n2).Cmp(one) == 0 {
			return r, nil
		}
	}
	return nil, ErrNonceExhausted
}
