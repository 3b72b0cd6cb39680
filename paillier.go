// Package paillier implements the Paillier partially homomorphic
// cryptosystem for computation on encrypted integers.
//
// Paillier is additively homomorphic: multiplying two ciphertexts
// modulo n² yields an encryption of the sum of the underlying
// plaintexts, and raising a ciphertext to a plaintext power yields an
// encryption of the product. This makes it possible for a party holding
// only the public key to add encrypted values, multiply them by known
// scalars, and subtract them, without ever seeing the plaintexts.
//
// The package is split the same way the protocol splits the parties:
//   - KeyGenerator-style top level functions derive key pairs
//   - Encryptor and Decryptor operate on the key-holding side
//   - Evaluator performs ciphertext-only operations on the compute side
//   - Request/Response messages and their JSON codec carry work between them
//   - Dispatch maps a decoded request onto the evaluator
package paillier

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

var one = big.NewInt(1)

// PublicKey holds the shareable half of a Paillier key pair.
// It is transmitted as part of every computation request.
type PublicKey struct {
	// N is the modulus, the product of two secret primes.
	N *big.Int
	// N2 caches N², the ciphertext modulus.
	N2 *big.Int
	// G is the generator, fixed to N+1.
	G *big.Int
}

// PrivateKey holds the decryption half of a Paillier key pair.
// It is never serialized or transmitted.
type PrivateKey struct {
	PublicKey
	Lambda *big.Int
	Mu     *big.Int
}

// GenerateKeys derives a key pair from two primes.
//
// The caller must supply two distinct primes; primality and
// distinctness are preconditions, not runtime checks. The derivation is
// deterministic: the same (p, q) always produces the same key pair.
func GenerateKeys(p, q *big.Int) (*PrivateKey, error) {
	n := new(big.Int).Mul(p, q)
	n2 := new(big.Int).Mul(n, n)
	g := new(big.Int).Add(n, one)

	lambda := new(big.Int).Mul(
		new(big.Int).Sub(p, one),
		new(big.Int).Sub(q, one),
	)

	// mu = L(g^lambda mod n²)^-1 mod n, with L(u) = (u-1)/n.
	// With g = n+1 the division is always exact.
	u := new(big.Int).Exp(g, lambda, n2)
	l := lFunc(u, n)
	mu, err := modInverse(l, n)
	if err != nil {
		return nil, fmt.Errorf("derive mu: %w", err)
	}

	return &PrivateKey{
		PublicKey: PublicKey{N: n, N2: n2, G: g},
		Lambda:    lambda,
		Mu:        mu,
	}, nil
}

// GenerateKey derives a key pair from two freshly drawn random primes
// of bits/2 bits each, read from random (typically crypto/rand.Reader).
func GenerateKey(random io.Reader, bits int) (*PrivateKey, error) {
	if bits < 16 {
		return nil, fmt.Errorf("key size %d too small", bits)
	}

	p, err := rand.Prime(random, bits/2)
	if err != nil {
		return nil, fmt.Errorf("draw prime p: %w", err)
	}

	q, err := rand.Prime(random, bits/2)
	for err == nil && p.Cmp(q) == 0 {
		q, err = rand.Prime(random, bits/2)
	}
	if err != nil {
		return nil, fmt.Errorf("draw prime q: %w", err)
	}

	return GenerateKeys(p, q)
}

// Public returns the shareable half of the key pair.
func (priv *PrivateKey) Public() *PublicKey {
	return &priv.PublicKey
}

// lFunc computes L(u) = (u-1)/n. The division is exact for every value
// this package feeds it.
func lFunc(u, n *big.Int) *big.Int {
	t := new(big.Int).Sub(u, one)
	return t.Div(t, n)
}
