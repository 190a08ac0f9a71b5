package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/compass/internal/models"
)

// Limits accepted by the recommendation backend.
const (
	MinRadiusM     = 100
	MaxRadiusM     = 20000
	MinMaxResults  = 1
	MaxMaxResults  = 25
	maxLatitude    = 90
	maxLongitude   = 180
	categoriesSep  = ","
	userIDMaxChars = 64
)

// InputError describes a form value that cannot be turned into a search request.
type InputError struct {
	Field  Field
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ParseSearch validates the current form values and builds a search request.
// The user id is trimmed and an empty one becomes nil. OpenNow is always set.
func ParseSearch(in Inputs) (models.SearchRequest, error) {
	lat, err := parseCoordinate(FieldLat, in.Latitude(), maxLatitude)
	if err != nil {
		return models.SearchRequest{}, err
	}

	lng, err := parseCoordinate(FieldLng, in.Longitude(), maxLongitude)
	if err != nil {
		return models.SearchRequest{}, err
	}

	radius, err := parseBoundedInt(FieldRadius, in.Radius(), MinRadiusM, MaxRadiusM)
	if err != nil {
		return models.SearchRequest{}, err
	}

	maxResults, err := parseBoundedInt(FieldMaxResults, in.MaxResults(), MinMaxResults, MaxMaxResults)
	if err != nil {
		return models.SearchRequest{}, err
	}

	req := models.SearchRequest{
		Lat:        lat,
		Lng:        lng,
		Query:      in.Query(),
		RadiusM:    radius,
		MaxResults: maxResults,
		OpenNow:    true,
		Categories: parseCategories(in.Categories()),
	}

	if userID := strings.TrimSpace(in.UserID()); userID != "" {
		if len(userID) > userIDMaxChars {
			return models.SearchRequest{}, &InputError{
				Field: FieldUserID, Value: userID, Reason: fmt.Sprintf("must be at most %d characters", userIDMaxChars),
			}
		}
		req.UserID = &userID
	}

	return req, nil
}

func parseCoordinate(field Field, raw string, bound float64) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &InputError{Field: field, Value: raw, Reason: "must be a number"}
	}
	if value < -bound || value > bound {
		return 0, &InputError{Field: field, Value: raw, Reason: fmt.Sprintf("must be between %g and %g", -bound, bound)}
	}

	return value, nil
}

func parseBoundedInt(field Field, raw string, lo, hi int) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &InputError{Field: field, Value: raw, Reason: "must be an integer"}
	}
	if value < lo || value > hi {
		return 0, &InputError{Field: field, Value: raw, Reason: fmt.Sprintf("must be between %d and %d", lo, hi)}
	}

	return value, nil
}

func parseCategories(raw string) []string {
	var categories []string
	for _, c := range strings.Split(raw, categoriesSep) {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}

	return categories
}
