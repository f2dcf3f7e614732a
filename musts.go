package fixedpoint

import "fmt"

// MustParseFixed32 is like [ParseFixed32] but panics if the string cannot
// be parsed. It simplifies safe initialization of global variables holding
// fixed-point numbers.
func MustParseFixed32(s string) Fixed32 {
	x, err := ParseFixed32(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseFixed32(%q) failed: %v", s, err))
	}
	return x
}

// MustParseFixed64 is like [ParseFixed64] but panics if the string cannot
// be parsed. It simplifies safe initialization of global variables holding
// fixed-point numbers.
func MustParseFixed64(s string) Fixed64 {
	x, err := ParseFixed64(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseFixed64(%q) failed: %v", s, err))
	}
	return x
}

// MustParseFixed128 is like [ParseFixed128] but panics if the string
// cannot be parsed. It simplifies safe initialization of global variables
// holding fixed-point numbers.
func MustParseFixed128(s string) Fixed128 {
	x, err := ParseFixed128(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseFixed128(%q) failed: %v", s, err))
	}
	return x
}

// MustParseInt128 is like [ParseInt128] but panics if the string cannot
// be parsed. It simplifies safe initialization of global variables holding
// 128-bit integers.
func MustParseInt128(s string) Int128 {
	x, err := ParseInt128(s)
	if err != nil {
		panic(fmt.Sprintf("MustParseInt128(%q) failed: %v", s, err))
	}
	return x
}
