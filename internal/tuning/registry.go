package tuning

import (
	"sort"

	"github.com/san-kum/pidlab/internal/pid"
	"github.com/san-kum/pidlab/internal/plant"
)

type ruleFunc func(*plant.Model, Params) (pid.Gains, error)

var registry = map[Rule]ruleFunc{
	ZNOpen:    zieglerNicholsOpen,
	ZNClosed:  zieglerNicholsClosed,
	CohenCoon: cohenCoon,
	IMC:       imc,
}

// Tune applies the named rule to the plant model.
func Tune(rule Rule, m *plant.Model, p Params) (pid.Gains, error) {
	fn, ok := registry[rule]
	if !ok {
		return pid.Gains{}, &DomainError{rule, "unknown rule"}
	}
	return fn(m, p)
}

// Rules lists every registered rule in stable order.
func Rules() []Rule {
	names := make([]Rule, 0, len(registry))
	for r := range registry {
		names = append(names, r)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Applicable lists the rules offered for a plant order: the
// reaction-curve rules for first-order plants, the ultimate-gain rule
// for second-order plants.
func Applicable(order plant.Order) []Rule {
	if order == plant.SecondOrder {
		return []Rule{ZNClosed}
	}
	return []Rule{ZNOpen, CohenCoon, IMC}
}
