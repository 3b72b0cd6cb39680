package paillier

import (
	"crypto/rand"
	"math/big"
	"testing"
)

// testKey returns the (p=17, q=19) key pair used throughout the tests:
// n = 323, g = 324, plaintext space [0, 323).
func testKey(t *testing.T) *PrivateKey {
	t.Helper()
	key, err := GenerateKeys(big.NewInt(17), big.NewInt(19))
	if err != nil {
		t.Fatalf("generate keys: %v", err)
	}
	return key
}

func TestGenerateKeys(t *testing.T) {
	key := testKey(t)

	if key.N.Int64() != 323 {
		t.Errorf("n = %s, want 323", key.N)
	}
	if key.N2.Int64() != 323*323 {
		t.Errorf("n² = %s, want %d", key.N2, 323*323)
	}
	if key.G.Int64() != 324 {
		t.Errorf("g = %s, want 324", key.G)
	}
	if key.Lambda.Int64() != 16*18 {
		t.Errorf("lambda = %s, want %d", key.Lambda, 16*18)
	}

	// mu must invert L(g^lambda mod n²) modulo n.
	u := new(big.Int).Exp(key.G, key.Lambda, key.N2)
	l := lFunc(u, key.N)
	check := new(big.Int).Mul(l, key.Mu)
	check.Mod(check, key.N)
	if check.Int64() != 1 {
		t.Errorf("l*mu mod n = %s, want 1", check)
	}
}

func TestGenerateKeysDeterministic(t *testing.T) {
	k1 := testKey(t)
	k2 := testKey(t)

	if k1.Lambda.Cmp(k2.Lambda) != 0 || k1.Mu.Cmp(k2.Mu) != 0 {
		t.Error("same primes produced different private keys")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey(t)
	enc := NewEncryptor(key.Public())
	dec := NewDecryptor(key)

	// The plaintext space is small enough to test exhaustively.
	for v := int64(0); v < 323; v++ {
		ct, err := enc.Encrypt(big.NewInt(v))
		if err != nil {
			t.Fatalf("encrypt %d: %v", v, err)
		}
		if got := dec.Decrypt(ct); got.Int64() != v {
			t.Fatalf("decrypt(encrypt(%d)) = %s", v, got)
		}
	}
}

func TestEncryptPlaintextOutOfRange(t *testing.T) {
	key := testKey(t)
	enc := NewEncryptor(key.Public())

	for _, v := range []int64{-1, 323, 1000} {
		if _, err := enc.Encrypt(big.NewInt(v)); err != ErrPlaintextOutOfRange {
			t.Errorf("encrypt %d: err = %v, want ErrPlaintextOutOfRange", v, err)
		}
	}
}

func TestEncryptWithNonceDeterministic(t *testing.T) {
	key := testKey(t)
	enc := NewEncryptor(key.Public())

	v := big.NewInt(42)
	c1 := enc.EncryptWithNonce(v, big.NewInt(5))
	c2 := enc.EncryptWithNonce(v, big.NewInt(5))

	if c1.Cmp(c2) != 0 {
		t.Error("same nonce produced different ciphertexts")
	}
}

func TestRandomnessIndependence(t *testing.T) {
	key := testKey(t)
	enc := NewEncryptor(key.Public())
	dec := NewDecryptor(key)

	v := big.NewInt(42)
	c1 := enc.EncryptWithNonce(v, big.NewInt(5))
	c2 := enc.EncryptWithNonce(v, big.NewInt(7))

	if c1.Cmp(c2) == 0 {
		t.Error("different nonces produced identical ciphertexts")
	}
	if m1, m2 := dec.Decrypt(c1), dec.Decrypt(c2); m1.Cmp(m2) != 0 {
		t.Errorf("decryptions diverge: %s vs %s", m1, m2)
	}
}

func TestHomomorphicAdd(t *testing.T) {
	key := testKey(t)
	enc := NewEncryptor(key.Public())
	dec := NewDecryptor(key)
	eval := NewEvaluator(key.N)

	testCases := []struct {
		v1, v2 int64
	}{
		{5, 12},
		{0, 0},
		{0, 100},
		{161, 161},
		{322, 322}, // wraps: (322+322) mod 323 = 321
		{322, 1},   // wraps to 0
	}

	for _, tc := range testCases {
		e1, err := enc.Encrypt(big.NewInt(tc.v1))
		if err != nil {
			t.Fatalf("encrypt %d: %v", tc.v1, err)
		}
		e2, err := enc.Encrypt(big.NewInt(tc.v2))
		if err != nil {
			t.Fatalf("encrypt %d: %v", tc.v2, err)
		}

		want := (tc.v1 + tc.v2) % 323
		got := dec.Decrypt(eval.Add(e1, e2))
		if got.Int64() != want {
			t.Errorf("add(%d, %d): decrypt = %s, want %d", tc.v1, tc.v2, got, want)
		}
	}
}

func TestHomomorphicMulPlain(t *testing.T) {
	key := testKey(t)
	enc := NewEncryptor(key.Public())
	dec := NewDecryptor(key)
	eval := NewEvaluator(key.N)

	testCases := []struct {
		v, m int64
	}{
		{7, 3},
		{7, 0},
		{0, 50},
		{100, 100}, // wraps: 10000 mod 323 = 310
		{1, 322},
	}

	for _, tc := range testCases {
		x, err := enc.Encrypt(big.NewInt(tc.v))
		if err != nil {
			t.Fatalf("encrypt %d: %v", tc.v, err)
		}

		want := (tc.v * tc.m) % 323
		got := dec.Decrypt(eval.MulPlain(x, big.NewInt(tc.m)))
		if got.Int64() != want {
			t.Errorf("mulPlain(%d, %d): decrypt = %s, want %d", tc.v, tc.m, got, want)
		}
	}
}

func TestHomomorphicSub(t *testing.T) {
	key := testKey(t)
	enc := NewEncryptor(key.Public())
	dec := NewDecryptor(key)
	eval := NewEvaluator(key.N)

	testCases := []struct {
		v1, v2 int64
	}{
		{12, 5},
		{5, 12}, // wraps: (5-12) mod 323 = 316
		{0, 0},
		{0, 1}, // wraps to 322
		{322, 322},
	}

	for _, tc := range testCases {
		e1, err := enc.Encrypt(big.NewInt(tc.v1))
		if err != nil {
			t.Fatalf("encrypt %d: %v", tc.v1, err)
		}
		e2, err := enc.Encrypt(big.NewInt(tc.v2))
		if err != nil {
			t.Fatalf("encrypt %d: %v", tc.v2, err)
		}

		result, err := eval.Sub(e1, e2)
		if err != nil {
			t.Fatalf("sub(%d, %d): %v", tc.v1, tc.v2, err)
		}

		want := ((tc.v1-tc.v2)%323 + 323) % 323
		got := dec.Decrypt(result)
		if got.Int64() != want {
			t.Errorf("sub(%d, %d): decrypt = %s, want %d", tc.v1, tc.v2, got, want)
		}
	}
}

func TestSubNotInvertible(t *testing.T) {
	key := testKey(t)
	eval := NewEvaluator(key.N)

	// e2 = n shares the factor n with n², so it has no inverse and
	// cannot be a valid ciphertext.
	if _, err := eval.Sub(big.NewInt(50), key.N); err != ErrNoInverse {
		t.Errorf("err = %v, want ErrNoInverse", err)
	}
}

func TestGenerateKeyRandom(t *testing.T) {
	key, err := GenerateKey(rand.Reader, 128)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	enc := NewEncryptor(key.Public())
	dec := NewDecryptor(key)

	v, err := rand.Int(rand.Reader, key.N)
	if err != nil {
		t.Fatalf("draw plaintext: %v", err)
	}

	ct, err := enc.Encrypt(v)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if got := dec.Decrypt(ct); got.Cmp(v) != 0 {
		t.Errorf("decrypt(encrypt(%s)) = %s", v, got)
	}
}
