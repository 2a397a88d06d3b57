package filter

import (
	"regexp"
	"strconv"
	"strings"
)

var salaryNumber = regexp.MustCompile(`(\d+(?:[.,]\d+)*)\s*(k|mil)?`)

// ParseSalary extracts a numeric range from free text such as
// "R$ 5.000 - 8.000", "80k-100k" or "5000". A single number yields a
// degenerate range. ok is false when no number is found.
func ParseSalary(s string) (lo, hi float64, ok bool) {
	matches := salaryNumber.FindAllStringSubmatch(strings.ToLower(s), -1)
	var values []float64
	for _, m := range matches {
		v, err := parseAmount(m[1])
		if err != nil {
			continue
		}
		if m[2] != "" {
			v *= 1000
		}
		values = append(values, v)
		if len(values) == 2 {
			break
		}
	}

	switch len(values) {
	case 0:
		return 0, 0, false
	case 1:
		return values[0], values[0], true
	}
	lo, hi = values[0], values[1]
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

// parseAmount reads a number written with either "." or "," as thousands
// separator. When both appear the last one is the decimal mark; when only
// one kind appears it is a thousands separator if exactly three digits
// follow its last occurrence.
func parseAmount(raw string) (float64, error) {
	lastDot := strings.LastIndex(raw, ".")
	lastComma := strings.LastIndex(raw, ",")

	var decimalSep byte
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			decimalSep = '.'
		} else {
			decimalSep = ','
		}
	case lastDot >= 0 && len(raw)-lastDot-1 != 3:
		decimalSep = '.'
	case lastComma >= 0 && len(raw)-lastComma-1 != 3:
		decimalSep = ','
	}

	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == decimalSep && i == strings.LastIndexByte(raw, decimalSep):
			b.WriteByte('.')
		}
	}
	return strconv.ParseFloat(b.String(), 64)
}
