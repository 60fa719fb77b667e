// Package labelqty derives the suggested number of labels for a shipment.
//
// Client contracts count labels differently: most clients get one label per
// metric ton, while mass-convention clients declare the load in kilograms and
// get one label per started 1000 kg. The suggestion is advisory; the operator
// may always override it.
package labelqty

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Convention is the unit a client's declared quantity is expressed in.
type Convention int

const (
	Ton  Convention = iota // quantity in tons, one label per ton
	Mass                   // quantity in kg, one label per started 1000 kg
)

func (c Convention) String() string {
	if c == Mass {
		return "kg"
	}
	return "ton"
}

// MaxLabels caps a suggestion. It matches the most a single print run accepts.
const MaxLabels = 500

// maxQuantityLen bounds the input so parsing stays cheap.
const maxQuantityLen = 24

var (
	thousand  = decimal.NewFromInt(1000)
	half      = decimal.RequireFromString("0.5")
	one       = decimal.NewFromInt(1)
	maxLabels = decimal.NewFromInt(MaxLabels)

	// quantityPattern is an optional sign followed by digits and pt-BR separators.
	quantityPattern = regexp.MustCompile(`^[+-]?[0-9.,]*[0-9][0-9.,]*$`)
)

// ConventionFor resolves the convention of a client: a client belongs to a
// mass family when its upper-cased name contains the family name.
func ConventionFor(clientName string, massClients []string) Convention {
	name := strings.ToUpper(strings.TrimSpace(clientName))
	if name == "" {
		return Ton
	}
	for _, family := range massClients {
		if family != "" && strings.Contains(name, strings.ToUpper(family)) {
			return Mass
		}
	}
	return Ton
}

// Normalize parses a pt-BR quantity ("1.234,5") into a decimal: '.' is a
// thousands separator and ',' the decimal mark. Anything else (units,
// exponents, spaces inside the number) is rejected.
func Normalize(quantity string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(quantity)
	if len(s) > maxQuantityLen || !quantityPattern.MatchString(s) {
		return decimal.Zero, false
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Derive computes the label count for quantity under conv. ok is false when the
// quantity is not a number; callers keep their previous suggestion then.
//
// Ton convention rounds to nearest with ties going down (32,5 → 32,
// 32,51 → 33). Mass convention always rounds up. The result is clamped to
// 1..MaxLabels.
func Derive(conv Convention, quantity string) (n int, ok bool) {
	v, ok := Normalize(quantity)
	if !ok {
		return 0, false
	}

	var rounded decimal.Decimal
	if conv == Mass {
		rounded = v.Div(thousand).Ceil()
	} else {
		floor := v.Floor()
		if v.Sub(floor).LessThanOrEqual(half) {
			rounded = floor
		} else {
			rounded = v.Ceil()
		}
	}

	switch {
	case rounded.LessThan(one):
		return 1, true
	case rounded.GreaterThan(maxLabels):
		return MaxLabels, true
	}
	return int(rounded.IntPart()), true
}

// Suggest is Derive with the "don't reset while typing" policy: an unparseable
// quantity leaves previous unchanged.
func Suggest(conv Convention, quantity string, previous int) int {
	if n, ok := Derive(conv, quantity); ok {
		return n
	}
	return previous
}
