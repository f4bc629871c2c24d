package assistant

import (
	"errors"
	"fmt"
)

var ErrUnknownPersona = errors.New("unknown persona")

// Persona is a stakeholder role used to steer generated questions.
type Persona struct {
	ID              string
	RoleDescription string
}

// Catalog is an ordered, read-only set of personas.
type Catalog struct {
	personas []Persona
	byID     map[string]int
}

// NewCatalog keeps the first persona for a duplicated ID.
func NewCatalog(personas ...Persona) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(personas))}
	for _, p := range personas {
		if _, dup := c.byID[p.ID]; dup {
			continue
		}
		c.byID[p.ID] = len(c.personas)
		c.personas = append(c.personas, p)
	}
	return c
}

func DefaultCatalog() *Catalog {
	return NewCatalog(
		Persona{
			ID:              "Financial Analyst",
			RoleDescription: "You are a financial analyst at Zalando. Your role is to ask questions about the financial metrics of Zalando for Q3 2024. Frame your questions in a conversational format, focusing on metrics such as revenue, margins, and regional performance.",
		},
		Persona{
			ID:              "Marketing Specialist",
			RoleDescription: "You are a marketing specialist at Zalando. Your role is to ask questions about customer acquisition, conversion rates, and campaign effectiveness for Q3 2024. Frame your questions in a conversational and insightful manner.",
		},
		Persona{
			ID:              "Strategy Manager",
			RoleDescription: "You are a strategy manager at Zalando. Your role is to ask questions about growth drivers, market share, and strategic investments for Q3 2024. Frame your questions with a focus on long-term business strategy.",
		},
	)
}

func (c *Catalog) Lookup(id string) (Persona, error) {
	i, ok := c.byID[id]
	if !ok {
		return Persona{}, fmt.Errorf("%w: %q", ErrUnknownPersona, id)
	}
	return c.personas[i], nil
}

// At returns the i-th persona in declaration order.
func (c *Catalog) At(i int) (Persona, bool) {
	if i < 0 || i >= len(c.personas) {
		return Persona{}, false
	}
	return c.personas[i], true
}

// IDs returns persona IDs in declaration order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.personas))
	for i, p := range c.personas {
		ids[i] = p.ID
	}
	return ids
}

func (c *Catalog) Len() int { return len(c.personas) }
