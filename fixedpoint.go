package fixedpoint

import (
	"errors"
)

var (
	errOverflow          = errors.New("overflow")
	errDivisionByZero    = errors.New("division by zero")
	errIntegerRange      = errors.New("integer out of range")
	errInvalidNumber     = errors.New("invalid number")
	errInexactConversion = errors.New("inexact conversion")
)

// formatFixed renders a scaled integer as a plain decimal number with exactly
// prec digits after the decimal point. The sign survives even when the whole
// part is zero, so -0.5 is "-0.5000...", not "0.5000...".
func formatFixed(inner, div int64, prec int) string {
	u := uint64(inner)
	neg := inner < 0
	if neg {
		u = -u
	}
	udiv := uint64(div)
	whole, frac := u/udiv, u%udiv

	var buf [41]byte
	pos := len(buf) - 1
	for i := 0; i < prec; i++ {
		buf[pos] = byte(frac%10) + '0'
		frac /= 10
		pos--
	}
	buf[pos] = '.'
	pos--
	for {
		buf[pos] = byte(whole%10) + '0'
		whole /= 10
		pos--
		if whole == 0 {
			break
		}
	}
	if neg {
		buf[pos] = '-'
		pos--
	}
	return string(buf[pos+1:])
}

// unquote strips a surrounding pair of double quotes, if present.
// JSON values arrive quoted, text values do not.
func unquote(data []byte) []byte {
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		return data[1 : len(data)-1]
	}
	return data
}
