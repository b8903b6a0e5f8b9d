package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Venue is the static description of one restaurant: its tables, the
// address that gets admin rights and the menu used when the store is empty.
type Venue struct {
	Name       string      `yaml:"name"`
	AdminEmail string      `yaml:"admin_email"`
	Tables     TableConfig `yaml:"tables"`
	Menu       []MenuEntry `yaml:"menu"`
}

const (
	defaultFirstTable = 1
	defaultLastTable  = 20
)

// TableConfig lists table numbers explicitly or as an inclusive range.
// ParseVenue fills an unset bound with 1 or 20.
type TableConfig struct {
	First   int   `yaml:"first"`
	Last    int   `yaml:"last"`
	Numbers []int `yaml:"numbers"`
}

type MenuEntry struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Price       decimal.Decimal `yaml:"-"`
	Category    string          `yaml:"category"`
	Image       string          `yaml:"image"`
}

// UnmarshalYAML reads price as text so it never passes through a float.
func (m *MenuEntry) UnmarshalYAML(node *yaml.Node) error {
	type plain MenuEntry
	var raw struct {
		plain `yaml:",inline"`
		Price string `yaml:"price"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	price, err := decimal.NewFromString(raw.Price)
	if err != nil {
		return fmt.Errorf("menu item %q: price %q: %w", raw.ID, raw.Price, err)
	}
	*m = MenuEntry(raw.plain)
	m.Price = price
	return nil
}

func LoadVenue(path string) (Venue, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Venue{}, fmt.Errorf("read venue file: %w", err)
	}
	return ParseVenue(raw)
}

func ParseVenue(raw []byte) (Venue, error) {
	var v Venue
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return Venue{}, fmt.Errorf("parse venue file: %w", err)
	}
	if len(v.Tables.Numbers) == 0 {
		if v.Tables.First == 0 {
			v.Tables.First = defaultFirstTable
		}
		if v.Tables.Last == 0 {
			v.Tables.Last = defaultLastTable
		}
		if v.Tables.First > v.Tables.Last {
			return Venue{}, errors.New("venue tables: first is after last")
		}
	}
	return v, nil
}
