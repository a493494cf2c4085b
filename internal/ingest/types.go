package ingest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Input documents are decoded into explicit structs; nothing downstream
// touches raw maps. Identifier and coordinate fields stay as RawMessage
// because the exports are inconsistent about numbers vs numeric strings, and
// a malformed value must fail only its own record, not the whole decode.

// ---- Geo document (country feature tree) ----

type GeoDocument struct {
	Features []GeoFeature `json:"features"`
}

type GeoFeature struct {
	Properties GeoProperties `json:"properties"`
	Geometry   GeoGeometry   `json:"geometry"`
}

type GeoGeometry struct {
	// [lon, lat]
	Coordinates []float64 `json:"coordinates"`
}

type GeoProperties struct {
	Country   string          `json:"country"`
	Count     json.RawMessage `json:"count"`
	Incidents []GeoIncident   `json:"incidents"`
}

type GeoIncident struct {
	PostID   json.RawMessage `json:"post_id"`
	Title    string          `json:"title"`
	Link     string          `json:"link"`
	Content  string          `json:"content"`
	Excerpt  string          `json:"excerpt"`
	DateText string          `json:"date_text"`

	// Single-element arrays in the export, absent when unknown.
	StartDate []string `json:"start_date"`
	EndDate   []string `json:"end_date"`

	Display *bool `json:"display"`

	Actors []GeoTerm `json:"actors"`
	Tools  []GeoTerm `json:"tools"`
}

type GeoTerm struct {
	TermID      json.RawMessage `json:"term_id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Taxonomy    string          `json:"taxonomy"`
	Description string          `json:"description"`
}

// ---- Post document (flat CMS export) ----

type PostDocument []PostRecord

type PostRecord struct {
	ID     json.RawMessage `json:"id"`
	Slug   string          `json:"slug"`
	Title  RenderedField   `json:"title"`
	Date   string          `json:"date"`
	Fields PostFields      `json:"acf"`
}

type RenderedField struct {
	Rendered string `json:"rendered"`
}

type PostFields struct {
	DateText  string `json:"date_text"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	Country  string          `json:"country"`
	Location *PostLocation   `json:"location"`
	Lat      json.RawMessage `json:"lat"`
	Lng      json.RawMessage `json:"lng"`

	SourceURL1 string `json:"source_url_1"`
	SourceURL2 string `json:"source_url_2"`
	SourceURL3 string `json:"source_url_3"`
	SourceURL4 string `json:"source_url_4"`
	SourceURL5 string `json:"source_url_5"`
}

type PostLocation struct {
	Country string          `json:"country"`
	Lat     json.RawMessage `json:"lat"`
	Lng     json.RawMessage `json:"lng"`
}

func (f PostFields) SourceSlots() []string {
	return []string{f.SourceURL1, f.SourceURL2, f.SourceURL3, f.SourceURL4, f.SourceURL5}
}

// parseID accepts a JSON number or a numeric string and rejects everything
// else, including fractions.
func parseID(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, fmt.Errorf("missing id")
	}
	s = strings.Trim(s, `"`)
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric id %q", string(raw))
	}
	return id, nil
}

// parseCoord returns nil for anything that does not parse as a finite float;
// malformed coordinates are absent, never fatal.
func parseCoord(raw json.RawMessage) *float64 {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// parseCountHint mirrors parseID but tolerates absence.
func parseCountHint(raw json.RawMessage) *int {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
