package natural

import "math/big"

// root returns floor(n^(1/k)) for n >= 0, k >= 1 using Newton's iteration
// x' = ((k-1)x + n/x^(k-1)) / k, started from a power of two above the root.
func root(n *big.Int, k int) *big.Int {
	if k == 1 || n.Sign() == 0 {
		return new(big.Int).Set(n)
	}
	if k == 2 {
		return new(big.Int).Sqrt(n)
	}
	bits := n.BitLen()
	// 2^(bits-1) <= n < 2^bits, so the root is 1 once k >= bits.
	if k >= bits {
		return big.NewInt(1)
	}

	km1 := big.NewInt(int64(k - 1))
	bk := big.NewInt(int64(k))
	x := new(big.Int).Lsh(big.NewInt(1), uint((bits+k-1)/k))
	y := new(big.Int)
	t := new(big.Int)
	for {
		// y = ((k-1)*x + n / x^(k-1)) / k
		t.Exp(x, km1, nil)
		t.Quo(n, t)
		y.Mul(km1, x)
		y.Add(y, t)
		y.Quo(y, bk)
		if y.Cmp(x) >= 0 {
			return x
		}
		x, y = y, x
	}
}
