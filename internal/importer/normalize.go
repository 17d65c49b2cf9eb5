package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lootlog/internal/model"
)

// Parse errors.
var (
	ErrEmptyValue   = errors.New("empty value")
	ErrInvalidPrice = errors.New("invalid price")
	ErrInvalidDate  = errors.New("invalid date")
)

var (
	plainNumber = regexp.MustCompile(`^\+?(\d+(\.\d+)?|\.\d+)$`)
	isoDate     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dayFirst    = regexp.MustCompile(`^(\d{1,2})[/.](\d{1,2})[/.](\d{4})$`)

	// groupedNumber is a dotted number whose commas group thousands.
	groupedNumber = regexp.MustCompile(`^\+?\d{1,3}(,\d{3})+(\.\d+)?$`)

	// priceNoise is stripped from prices before parsing: currency symbols
	// and the spaces used as thousands separators.
	priceNoise = strings.NewReplacer(
		"€", "", "$", "", "£", "", "¥", "",
		" ", "", "\u00a0", "", "\u202f", "",
	)

	isoLayouts = []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z0700",
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
)

// ParsePrice parses a non-negative decimal price.
//
// A comma is read as the decimal point only when the value has no dot
// ("29,99" is 29.99). When a dot is present, commas before it are thousands
// separators ("1,299.00") and must group exactly three digits; "2,9.99" or
// a comma after the last dot is rejected. Currency symbols and space separators are ignored. Anything else
// that is not a plain non-negative number is an error, never zero.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrEmptyValue
	}

	s = priceNoise.Replace(s)

	commas := strings.Count(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case commas == 0:
	case lastDot < 0 && commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	case lastDot >= 0 && groupedNumber.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	default:
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}

	if !plainNumber.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}

	price, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidPrice, raw, err)
	}
	return price, nil
}

// ParseDate parses a purchase date and returns it as YYYY-MM-DD.
//
// Accepted forms are YYYY-MM-DD, day-first DD/MM/YYYY or DD.MM.YYYY, and
// ISO-8601 timestamps, which are converted to UTC before the date is taken.
// Impossible calendar dates such as 31/02/2024 are rejected.
func ParseDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmptyValue
	}

	if isoDate.MatchString(s) {
		if _, err := time.Parse(model.DateLayout, s); err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		return s, nil
	}

	if m := dayFirst.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])

		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Day() != day || int(t.Month()) != month || t.Year() != year {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
		}
		return t.Format(model.DateLayout), nil
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(model.DateLayout), nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}
