// Package natural provides an arbitrary-precision nonnegative integer with
// in-place mutators.
//
// Every mutator checks its preconditions before touching the receiver, so a
// contract violation leaves the value exactly as it was. Violations panic
// with a *ContractError.
package natural

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// MaxInt is the largest value Int converts without failing.
const MaxInt = math.MaxInt32

var (
	bigTen    = big.NewInt(10)
	bigMaxInt = big.NewInt(MaxInt)
)

// Natural is a nonnegative integer. The zero value is 0 and ready to use.
// Natural must not be copied after first use; use CopyFrom or Take.
type Natural struct {
	v big.Int
}

// New returns a Natural holding 0.
func New() *Natural { return &Natural{} }

// FromInt returns a Natural holding n. It panics if n is negative.
func FromInt(n int) *Natural {
	if n < 0 {
		panic(violation("FromInt", "negative value %d", n))
	}
	x := New()
	x.v.SetInt64(int64(n))
	return x
}

// Parse reads a decimal string. Leading and trailing whitespace is ignored.
func Parse(s string) (*Natural, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("parse natural: empty input")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("parse natural %q: invalid digit %q", s, r)
		}
	}
	x := New()
	if _, ok := x.v.SetString(s, 10); !ok {
		return nil, fmt.Errorf("parse natural %q: invalid number", s)
	}
	return x, nil
}

// NewInstance returns a new Natural holding 0.
func (x *Natural) NewInstance() *Natural { return New() }

// Clear sets x to 0.
func (x *Natural) Clear() { x.v.SetInt64(0) }

// CopyFrom sets x to the value of src; src is unchanged.
func (x *Natural) CopyFrom(src *Natural) {
	if x == src {
		return
	}
	x.v.Set(&src.v)
}

// TransferFrom moves the value of src into x and resets src to 0.
func (x *Natural) TransferFrom(src *Natural) {
	if x == src {
		return
	}
	x.v.Set(&src.v)
	src.v.SetInt64(0)
}

// Take returns the current value as a new Natural and resets x to 0.
func (x *Natural) Take() *Natural {
	out := New()
	out.TransferFrom(x)
	return out
}

// Add sets x to x + y.
func (x *Natural) Add(y *Natural) { x.v.Add(&x.v, &y.v) }

// Subtract sets x to x - y. It panics if y > x.
func (x *Natural) Subtract(y *Natural) {
	if x.v.Cmp(&y.v) < 0 {
		panic(violation("Subtract", "%s is greater than %s", y, x))
	}
	x.v.Sub(&x.v, &y.v)
}

// Multiply sets x to x * y.
func (x *Natural) Multiply(y *Natural) { x.v.Mul(&x.v, &y.v) }

// Divide sets x to the quotient x / y and returns the remainder as a new
// Natural. It panics if y is 0.
func (x *Natural) Divide(y *Natural) *Natural {
	if y.v.Sign() == 0 {
		panic(violation("Divide", "division by zero"))
	}
	r := New()
	// x and y may alias; QuoRem handles that as long as r is distinct.
	x.v.QuoRem(&x.v, &y.v, &r.v)
	return r
}

// Power sets x to x^p. It panics if p is negative.
func (x *Natural) Power(p int) {
	if p < 0 {
		panic(violation("Power", "negative exponent %d", p))
	}
	x.v.Exp(&x.v, big.NewInt(int64(p)), nil)
}

// Root sets x to the floor of its r-th root. It panics if r < 1.
func (x *Natural) Root(r int) {
	if r < 1 {
		panic(violation("Root", "degree %d is less than 1", r))
	}
	x.v.Set(root(&x.v, r))
}

// MultiplyBy10 sets x to 10x + digit. It panics unless 0 <= digit <= 9.
func (x *Natural) MultiplyBy10(digit int) {
	if digit < 0 || digit > 9 {
		panic(violation("MultiplyBy10", "digit %d out of range", digit))
	}
	x.v.Mul(&x.v, bigTen)
	x.v.Add(&x.v, big.NewInt(int64(digit)))
}

// Compare returns -1, 0 or +1 as x is less than, equal to or greater than y.
func (x *Natural) Compare(y *Natural) int { return x.v.Cmp(&y.v) }

// IsZero reports whether x is 0.
func (x *Natural) IsZero() bool { return x.v.Sign() == 0 }

// Int returns x as an int. It fails with ErrOutOfRange if x > MaxInt.
func (x *Natural) Int() (int, error) {
	if x.v.Cmp(bigMaxInt) > 0 {
		return 0, fmt.Errorf("%w: %s exceeds %d", ErrOutOfRange, x.abbrev(), MaxInt)
	}
	return int(x.v.Int64()), nil
}

// MustInt is like Int but panics with a *ContractError on failure.
func (x *Natural) MustInt() int {
	n, err := x.Int()
	if err != nil {
		panic(&ContractError{Op: "Int", Err: err})
	}
	return n
}

// Digits returns the number of decimal digits in x; 0 has one digit.
func (x *Natural) Digits() int { return len(x.String()) }

// String returns x in base 10.
func (x *Natural) String() string { return x.v.String() }

func (x *Natural) abbrev() string {
	s := x.String()
	if len(s) <= 24 {
		return s
	}
	return s[:10] + "..." + s[len(s)-10:]
}
