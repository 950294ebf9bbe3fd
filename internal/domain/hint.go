package domain

import (
	"fmt"
	"strings"
)

// DomainHint selects personal (income/expense) or business (revenue/cost)
// framing. It only changes wording, never arithmetic.
type DomainHint string

const (
	HintPersonal DomainHint = "personal"
	HintBusiness DomainHint = "business"
)

// ParseDomainHint accepts "personal" or "business" in any case.
// An empty string means personal.
func ParseDomainHint(s string) (DomainHint, error) {
	switch DomainHint(strings.ToLower(strings.TrimSpace(s))) {
	case HintPersonal, "":
		return HintPersonal, nil
	case HintBusiness:
		return HintBusiness, nil
	default:
		return "", fmt.Errorf("unknown domain hint %q (want personal or business)", s)
	}
}

// Labels are the display names for the three headline totals.
type Labels struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

// Labels returns the wording that matches the hint.
func (h DomainHint) Labels() Labels {
	if h == HintBusiness {
		return Labels{Income: "Revenue", Expense: "Costs", Balance: "Profit"}
	}
	return Labels{Income: "Income", Expense: "Expenses", Balance: "Balance"}
}

// InflowTerm and OutflowTerm name money in and out for prompts.
func (h DomainHint) InflowTerm() string {
	if h == HintBusiness {
		return "revenue"
	}
	return "income"
}

func (h DomainHint) OutflowTerm() string {
	if h == HintBusiness {
		return "cost"
	}
	return "expense"
}
