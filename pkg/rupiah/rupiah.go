// Package rupiah formats and parses Indonesian Rupiah amounts.
// Amounts are whole rupiah; the currency has no fractional unit in practice.
package rupiah

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

var (
	ErrEmpty    = errors.New("rupiah: empty amount")
	ErrInvalid  = errors.New("rupiah: invalid amount")
	ErrFraction = errors.New("rupiah: fractional rupiah not supported")
)

// Format renders amount as "Rp 1.500.000"; negative amounts get a leading minus.
func Format(amount int64) string {
	if amount < 0 {
		if amount == -amount {
			// math.MinInt64 has no positive counterpart
			return "-Rp " + printer.Sprintf("%d", uint64(1<<63))
		}
		return "-Rp " + FormatNumber(-amount)
	}
	return "Rp " + FormatNumber(amount)
}

// FormatNumber renders the grouped digits without the currency symbol.
func FormatNumber(amount int64) string {
	return printer.Sprintf("%d", amount)
}

// Parse reads user input such as "Rp 1.500.000", "1500000", "IDR 25.000,00"
// or "-Rp 2.000". A decimal part is accepted only when it is all zeros.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmpty
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimSpace(s[1:])
	}

	upper := strings.ToUpper(s)
	switch {
	case strings.HasPrefix(upper, "RP"):
		s = s[2:]
	case strings.HasPrefix(upper, "IDR"):
		s = s[3:]
	}
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "."))

	if whole, frac, ok := strings.Cut(s, ","); ok {
		if strings.Trim(frac, "0") != "" {
			return 0, ErrFraction
		}
		s = whole
	}

	var amount int64
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			if amount > (1<<63-1-int64(r-'0'))/10 {
				return 0, fmt.Errorf("%w: overflow", ErrInvalid)
			}
			amount = amount*10 + int64(r-'0')
			digits++
		case r == '.' || r == ' ' || r == '\u00a0':
			// thousands separators
		default:
			return 0, fmt.Errorf("%w: unexpected %q", ErrInvalid, r)
		}
	}
	if digits == 0 {
		return 0, ErrInvalid
	}

	if negative {
		amount = -amount
	}
	return amount, nil
}

// Amount decodes from a JSON number or from a string Parse accepts, so
// clients may send 25000 or "Rp 25.000".
type Amount int64

func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := Parse(s)
		if err != nil {
			return err
		}
		*a = Amount(v)
		return nil
	}

	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}
