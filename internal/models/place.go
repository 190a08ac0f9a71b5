package models

// SearchRequest is the body of a recommendation request.
// It is built fresh for every search activation from the current form state.
type SearchRequest struct {
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Query      string   `json:"query"`
	RadiusM    int      `json:"radius_m"`
	MaxResults int      `json:"max_results"`
	OpenNow    bool     `json:"open_now"`
	UserID     *string  `json:"user_id"`
	Categories []string `json:"categories,omitempty"`
}

// Origin returns the point the search is centered on.
func (r SearchRequest) Origin() Coordinates {
	return Coordinates{Latitude: r.Lat, Longitude: r.Lng}
}

// PlaceResult is one ranked candidate returned by the backend.
type PlaceResult struct {
	PlaceID       string   `json:"place_id"`
	Name          string   `json:"name"`
	Address       *string  `json:"address"`
	DistanceM     float64  `json:"distance_m"`
	Score         float64  `json:"score"`
	PersonalBoost *float64 `json:"personal_boost"`
	SemanticScore *float64 `json:"semantic_score,omitempty"`
	Categories    []string `json:"categories"`
	Lat           float64  `json:"lat"`
	Lng           float64  `json:"lng"`
}

// Location returns the coordinates of the place.
func (p PlaceResult) Location() Coordinates {
	return Coordinates{Latitude: p.Lat, Longitude: p.Lng}
}

// CategoryHint returns the first category of the place, or nil when it has none.
func (p PlaceResult) CategoryHint() *string {
	if len(p.Categories) == 0 || p.Categories[0] == "" {
		return nil
	}
	hint := p.Categories[0]
	return &hint
}

// RecommendResponse is the success body of the recommendation endpoint.
type RecommendResponse struct {
	Results []PlaceResult `json:"results"`
}
