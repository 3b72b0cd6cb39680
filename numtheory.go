package paillier

import "math/big"

// extendedGCD returns g = gcd(a, b) together with Bézout coefficients
// x, y such that a*x + b*y = g. It is valid for all integer inputs,
// including negative values and zero; g is always non-negative.
func extendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	g = new(big.Int).Set(a)
	r := new(big.Int).Set(b)

	x, x1 := big.NewInt(1), big.NewInt(0)
	y, y1 := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	t := new(big.Int)
	for r.Sign() != 0 {
		q.QuoRem(g, r, t)
		g, r = r, g.Set(t)

		t.Mul(q, x1)
		x, x1 = x1, x.Sub(x, t)

		t.Mul(q, y1)
		y, y1 = y1, y.Sub(y, t)
	}

	if g.Sign() < 0 {
		g.Neg(g)
		x.Neg(x)
		y.Neg(y)
	}
	return g, x, y
}

// modInverse returns x such that (a*x) mod m == 1, or ErrNoInverse when
// gcd(a, m) != 1.
func modInverse(a, m *big.Int) (*big.Int, error) {
	g, x, _ := extendedGCD(a, m)
	if g.Cmp(one) != 0 {
		return nil, ErrNoInverse
	}
	return x.Mod(x, m), nil
}

// lcm returns the least common multiple of a and b, or zero when either
// input is zero. The division by gcd(a, b) is exact.
func lcm(a, b *big.Int) *big.Int {
	if a.Sign() == 0 || b.Sign() == 0 {
		return new(big.Int)
	}
	g, _, _ := extendedGCD(a, b)
	v := new(big.Int).Mul(a, b)
	v.Abs(v)
	return v.Div(v, g)
}
