package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

var ErrPlanNotFound = errors.New("license plan not found")

// Plan is a purchasable bundle of photo-analysis allowance and validity.
// Plans are immutable after load; accounts copy the allowance at creation
// time, so later catalog changes never affect existing licenses.
type Plan struct {
	ID             string  `yaml:"id" json:"id"`
	Name           string  `yaml:"name" json:"name"`
	PhotoAllowance int     `yaml:"photo_allowance" json:"photo_allowance"`
	ValidityDays   int     `yaml:"validity_days" json:"validity_days"`
	Price          float64 `yaml:"price" json:"price"`
}

// Catalog is the read-only set of license plans, keyed by plan ID.
type Catalog struct {
	plans map[string]Plan
	order []string
}

// Default returns the built-in plan set, used when no plans file is
// configured.
func Default() *Catalog {
	c, err := New([]Plan{
		{ID: "starter", Name: "Starter", PhotoAllowance: 50, ValidityDays: 90, Price: 15000},
		{ID: "standard", Name: "Standard", PhotoAllowance: 200, ValidityDays: 180, Price: 45000},
		{ID: "premium", Name: "Premium", PhotoAllowance: 500, ValidityDays: 365, Price: 90000},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog from a plan list, validating each entry.
func New(plans []Plan) (*Catalog, error) {
	c := &Catalog{plans: make(map[string]Plan, len(plans))}
	for _, p := range plans {
		if p.ID == "" {
			return nil, fmt.Errorf("catalog: plan with empty id")
		}
		if _, dup := c.plans[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate plan id %q", p.ID)
		}
		if p.PhotoAllowance <= 0 {
			return nil, fmt.Errorf("catalog: plan %q has non-positive photo allowance", p.ID)
		}
		if p.ValidityDays <= 0 {
			return nil, fmt.Errorf("catalog: plan %q has non-positive validity", p.ID)
		}
		c.plans[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c, nil
}

// LoadFile loads the catalog from a YAML plans file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read plans file: %w", err)
	}

	var doc struct {
		Plans []Plan `yaml:"plans"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse plans file: %w", err)
	}

	return New(doc.Plans)
}

// Lookup returns the plan for an ID, or ErrPlanNotFound.
func (c *Catalog) Lookup(planID string) (*Plan, error) {
	plan, ok := c.plans[planID]
	if !ok {
		return nil, ErrPlanNotFound
	}
	return &plan, nil
}

// List returns all plans in load order.
func (c *Catalog) List() []Plan {
	out := make([]Plan, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.plans[id])
	}
	return out
}
