package render

import (
	"strconv"

	"github.com/UnknownOlympus/compass/internal/models"
)

// AddressPlaceholder is shown for places without an address.
const AddressPlaceholder = "Address not available"

// Entry is the display form of one place result.
type Entry struct {
	PlaceID  string
	Name     string
	Address  string
	Distance string
	Score    string
	Boost    string
	Controls []*Control
}

// Summary is the one-line metrics part of an entry.
func (e Entry) Summary() string {
	return "distance: " + e.Distance + "m · score: " + e.Score + " · boost: " + e.Boost
}

// Control returns the entry's control for action, or nil.
func (e Entry) Control(action models.Action) *Control {
	for _, c := range e.Controls {
		if c.Action == action {
			return c
		}
	}
	return nil
}

// BuildEntries turns results into entries in the given order. It has no side effects;
// the controls it creates are unbound until a Renderer wires them.
func BuildEntries(results []models.PlaceResult) []Entry {
	entries := make([]Entry, 0, len(results))
	for _, p := range results {
		address := AddressPlaceholder
		if p.Address != nil {
			address = *p.Address
		}

		var boost float64
		if p.PersonalBoost != nil {
			boost = *p.PersonalBoost
		}

		entries = append(entries, Entry{
			PlaceID:  p.PlaceID,
			Name:     p.Name,
			Address:  address,
			Distance: FormatNumber(p.DistanceM),
			Score:    FormatNumber(p.Score),
			Boost:    FormatNumber(boost),
			Controls: []*Control{
				{Action: models.ActionLike, PlaceID: p.PlaceID, CategoryHint: p.CategoryHint()},
				{Action: models.ActionDislike, PlaceID: p.PlaceID, CategoryHint: p.CategoryHint()},
			},
		})
	}

	return entries
}

// FormatNumber prints a number in its shortest exact form (120, 0.8, -0.02).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MarkerLabel is the popup text of a result marker.
func MarkerLabel(p models.PlaceResult) string {
	return p.Name + "<br/>score: " + FormatNumber(p.Score)
}
