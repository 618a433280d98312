// Package spdx answers questions about SPDX license identifiers
package spdx

import (
	"strings"
	"sync"

	"github.com/github/go-spdx/v2/spdxexp"
	"github.com/github/go-spdx/v2/spdxexp/spdxlicenses"
)

// Dictionary looks up SPDX license identifiers
type Dictionary interface {
	// IsKnownSpdxID reports whether id names an SPDX license, ignoring case
	IsKnownSpdxID(id string) bool
	// Canonicalize returns the canonical spelling of a known id, or id
	// unchanged
	Canonicalize(id string) string
	// IsValidExpression reports whether expression is a valid SPDX license
	// expression
	IsValidExpression(expression string) bool
}

type dictionary struct {
	ids map[string]string
}

var (
	licenses     *dictionary
	licensesOnce sync.Once
)

// Licenses returns the dictionary of the SPDX license list
func Licenses() Dictionary {
	licensesOnce.Do(func() {
		licenses = newDictionary(spdxlicenses.GetLicenses(), spdxlicenses.GetDeprecated())
	})
	return licenses
}

// New returns a dictionary of the given ids
func New(idLists ...[]string) Dictionary {
	return newDictionary(idLists...)
}

func newDictionary(idLists ...[]string) *dictionary {
	d := &dictionary{ids: make(map[string]string)}
	for _, ids := range idLists {
		for _, id := range ids {
			d.ids[strings.ToLower(id)] = id
		}
	}
	return d
}

func (d *dictionary) IsKnownSpdxID(id string) bool {
	_, ok := d.ids[strings.ToLower(strings.TrimSpace(id))]
	return ok
}

func (d *dictionary) Canonicalize(id string) string {
	if canonical, ok := d.ids[strings.ToLower(strings.TrimSpace(id))]; ok {
		return canonical
	}
	return id
}

func (d *dictionary) IsValidExpression(expression string) bool {
	valid, _ := spdxexp.ValidateLicenses([]string{expression})
	return valid
}
