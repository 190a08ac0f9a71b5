package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Field names a form input.
type Field string

const (
	FieldQuery      Field = "query"
	FieldUserID     Field = "user_id"
	FieldLat        Field = "lat"
	FieldLng        Field = "lng"
	FieldRadius     Field = "radius_m"
	FieldMaxResults Field = "max_results"
	FieldCategories Field = "categories"
)

// ErrUnknownField is returned when setting a field the form does not have.
var ErrUnknownField = errors.New("unknown form field")

// Inputs exposes the raw values of the search form.
// Values are read at the moment a getter is called.
type Inputs interface {
	Query() string
	UserID() string
	Latitude() string
	Longitude() string
	Radius() string
	MaxResults() string
	Categories() string
}

// Values is an in-memory form safe for concurrent use.
type Values struct {
	mu     sync.RWMutex
	fields map[Field]string
}

// NewValues creates a form populated with the given initial values.
func NewValues(initial map[Field]string) *Values {
	fields := make(map[Field]string, len(fieldOrder))
	for _, f := range fieldOrder {
		fields[f] = ""
	}
	for f, v := range initial {
		if _, ok := fields[f]; ok {
			fields[f] = v
		}
	}

	return &Values{fields: fields}
}

var fieldOrder = []Field{
	FieldQuery, FieldUserID, FieldLat, FieldLng, FieldRadius, FieldMaxResults, FieldCategories,
}

// Fields lists every field name in display order.
func Fields() []Field {
	return append([]Field(nil), fieldOrder...)
}

// Set replaces the raw value of a field.
func (v *Values) Set(field Field, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.fields[field]; !ok {
		known := make([]string, 0, len(v.fields))
		for f := range v.fields {
			known = append(known, string(f))
		}
		sort.Strings(known)
		return fmt.Errorf("%w: %q (known: %s)", ErrUnknownField, field, strings.Join(known, ", "))
	}
	v.fields[field] = value

	return nil
}

// Get returns the raw value of a field.
func (v *Values) Get(field Field) string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.fields[field]
}

func (v *Values) Query() string      { return v.Get(FieldQuery) }
func (v *Values) UserID() string     { return v.Get(FieldUserID) }
func (v *Values) Latitude() string   { return v.Get(FieldLat) }
func (v *Values) Longitude() string  { return v.Get(FieldLng) }
func (v *Values) Radius() string     { return v.Get(FieldRadius) }
func (v *Values) MaxResults() string { return v.Get(FieldMaxResults) }
func (v *Values) Categories() string { return v.Get(FieldCategories) }
