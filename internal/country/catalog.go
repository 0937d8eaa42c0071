// internal/country/catalog.go
//
// Immutable country catalog.
//
// Responsibilities:
//   - Load the catalog from COUNTRIES_FILE (if configured) or the embedded
//     assets/countries.json.
//   - Resolve countries by code, by name (case-insensitive exact match), or
//     by either.
//   - Pick a random country from a caller-supplied random source.
//
// Codes are unique; a duplicate code in the source data is a load error.

package country

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strings"

	"github.com/robalobadob/flaggle/assets"
	"github.com/robalobadob/flaggle/internal/apperr"
)

// Catalog is a read-only set of countries. Safe for concurrent use.
type Catalog struct {
	byCodeOrder []Country      // sorted by code (stable daily index)
	byNameOrder []Country      // sorted by name (autocomplete listing)
	byCode      map[string]int // code -> index into byCodeOrder
	byName      map[string]int // lower(name) -> index into byCodeOrder
}

// Load reads the catalog from path, or from the embedded data when path is empty.
func Load(path string) (*Catalog, error) {
	var (
		raw []byte
		err error
	)
	if path != "" {
		raw, err = os.ReadFile(path)
	} else {
		raw, err = assets.Countries()
	}
	if err != nil {
		return nil, fmt.Errorf("read countries: %w", err)
	}
	var list []Country
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode countries: %w", err)
	}
	return NewCatalog(list)
}

// NewCatalog validates and indexes list.
func NewCatalog(list []Country) (*Catalog, error) {
	if len(list) == 0 {
		return nil, errors.New("country: catalog is empty")
	}
	c := &Catalog{
		byCodeOrder: make([]Country, 0, len(list)),
		byCode:      make(map[string]int, len(list)),
		byName:      make(map[string]int, len(list)),
	}
	for _, raw := range list {
		cn := normalize(raw)
		if len(cn.Code) != 2 {
			return nil, fmt.Errorf("country: invalid code %q", raw.Code)
		}
		if cn.Name == "" {
			return nil, fmt.Errorf("country %s: missing name", cn.Code)
		}
		if _, dup := c.byCode[cn.Code]; dup {
			return nil, fmt.Errorf("country: duplicate code %s", cn.Code)
		}
		c.byCode[cn.Code] = -1
		c.byCodeOrder = append(c.byCodeOrder, cn)
	}
	sort.Slice(c.byCodeOrder, func(i, j int) bool { return c.byCodeOrder[i].Code < c.byCodeOrder[j].Code })
	for i, cn := range c.byCodeOrder {
		c.byCode[cn.Code] = i
		c.byName[strings.ToLower(cn.Name)] = i
	}

	c.byNameOrder = append([]Country(nil), c.byCodeOrder...)
	sort.SliceStable(c.byNameOrder, func(i, j int) bool { return c.byNameOrder[i].Name < c.byNameOrder[j].Name })
	return c, nil
}

// Len reports the number of countries.
func (c *Catalog) Len() int { return len(c.byCodeOrder) }

// At returns the i-th country in code order.
func (c *Catalog) At(i int) Country { return c.byCodeOrder[i] }

// All returns every country sorted by name. The slice is a copy.
func (c *Catalog) All() []Country {
	return append([]Country(nil), c.byNameOrder...)
}

// ByCode resolves a 2-letter code (any case).
func (c *Catalog) ByCode(code string) (Country, error) {
	if i, ok := c.byCode[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return c.byCodeOrder[i], nil
	}
	return Country{}, apperr.NotFound("country code %q", code)
}

// ByName resolves a display name, ignoring case.
func (c *Catalog) ByName(name string) (Country, error) {
	if i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c.byCodeOrder[i], nil
	}
	return Country{}, apperr.NotFound("country name %q", name)
}

// Resolve accepts either a display name or a code. Names win.
func (c *Catalog) Resolve(ident string) (Country, error) {
	if cn, err := c.ByName(ident); err == nil {
		return cn, nil
	}
	if cn, err := c.ByCode(ident); err == nil {
		return cn, nil
	}
	return Country{}, apperr.NotFound("country %q", ident)
}

// Random picks a country using r.
func (c *Catalog) Random(r *rand.Rand) Country {
	return c.byCodeOrder[r.IntN(len(c.byCodeOrder))]
}
