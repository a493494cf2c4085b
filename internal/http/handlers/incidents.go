package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	repos "github.com/brightlines/interference-tracker/internal/data/repos/incidents"
	"github.com/brightlines/interference-tracker/internal/http/response"
	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

// IncidentHandler serves the dashboard read API. Everything here goes
// through the incident_denorm view; filters run over the flattened CSV
// columns.
type IncidentHandler struct {
	log  *logger.Logger
	view repos.ViewRepo
	runs repos.RunRepo
}

func NewIncidentHandler(log *logger.Logger, view repos.ViewRepo, runs repos.RunRepo) *IncidentHandler {
	return &IncidentHandler{
		log:  log.With("handler", "IncidentHandler"),
		view: view,
		runs: runs,
	}
}

type incidentFilters struct {
	Start     *time.Time
	End       *time.Time
	Actors    []string
	Countries []string
	Tools     []string
	Query     string
}

// GET /api/incidents
func (h *IncidentHandler) ListIncidents(c *gin.Context) {
	filters := parseFilters(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "25"))
	if pageSize < 1 {
		pageSize = 25
	}
	if pageSize > 100 {
		pageSize = 100
	}

	rows, err := h.view.List(c.Request.Context(), nil, true)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_incidents_failed", err)
		return
	}

	filtered := rows[:0:0]
	for _, row := range rows {
		if matchFilters(row, filters) {
			filtered = append(filtered, row)
		}
	}

	total := len(filtered)
	offset := (page - 1) * pageSize
	if offset > total {
		offset = total
	}
	end := offset + pageSize
	if end > total {
		end = total
	}

	response.RespondOK(c, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     filtered[offset:end],
	})
}

// GET /api/meta: actor/country/tool/year counters over displayed incidents.
func (h *IncidentHandler) GetMeta(c *gin.Context) {
	rows, err := h.view.List(c.Request.Context(), nil, true)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "load_meta_failed", err)
		return
	}

	actors := map[string]int{}
	countries := map[string]int{}
	tools := map[string]int{}
	years := map[int]int{}

	for _, row := range rows {
		for _, a := range splitCSV(row.Actors) {
			actors[a]++
		}
		for _, n := range splitCSV(row.Countries) {
			countries[n]++
		}
		for _, t := range splitCSV(row.Tools) {
			tools[t]++
		}
		if d := rowDate(row); d != nil {
			years[d.Year()]++
		}
	}

	response.RespondOK(c, gin.H{
		"actors":    countPairs(actors),
		"countries": countPairs(countries),
		"tools":     countPairs(tools),
		"years":     yearPairs(years),
	})
}

// GET /api/ingest/runs
func (h *IncidentHandler) ListIngestRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	rows, err := h.runs.GetRecent(c.Request.Context(), nil, limit)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "list_runs_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"runs": rows})
}

func parseFilters(c *gin.Context) incidentFilters {
	parseMulti := func(name string) []string {
		v := strings.TrimSpace(c.Query(name))
		if v == "" {
			return nil
		}
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}

	f := incidentFilters{
		Actors:    parseMulti("actors"),
		Countries: parseMulti("countries"),
		Tools:     parseMulti("tools"),
		Query:     strings.TrimSpace(c.Query("q")),
	}
	if t, err := time.Parse("2006-01-02", c.Query("start")); err == nil {
		f.Start = &t
	}
	if t, err := time.Parse("2006-01-02", c.Query("end")); err == nil {
		f.End = &t
	}
	return f
}

func matchFilters(row *repos.ViewRow, f incidentFilters) bool {
	d := rowDate(row)
	if f.Start != nil && d != nil && d.Before(*f.Start) {
		return false
	}
	if f.End != nil && d != nil && d.After(*f.End) {
		return false
	}

	if len(f.Actors) > 0 && !intersects(splitCSV(row.Actors), f.Actors) {
		return false
	}
	if len(f.Countries) > 0 && !intersects(splitCSV(row.Countries), f.Countries) {
		return false
	}
	if len(f.Tools) > 0 && !intersects(splitCSV(row.Tools), f.Tools) {
		return false
	}

	if f.Query != "" {
		hay := strings.ToLower(row.Title + " " + row.ContentClean + " " + row.ExcerptClean)
		if !strings.Contains(hay, strings.ToLower(f.Query)) {
			return false
		}
	}
	return true
}

// rowDate prefers the normalized start date and falls back to an ISO-shaped
// date_text.
func rowDate(row *repos.ViewRow) *time.Time {
	for _, s := range []string{deref(row.StartDate), row.DateText} {
		if s == "" {
			continue
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return &t
		}
	}
	return nil
}

func splitCSV(s *string) []string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(*s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func intersects(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, h := range have {
		set[h] = true
	}
	for _, w := range want {
		if set[w] {
			return true
		}
	}
	return false
}

type countPair struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func countPairs(m map[string]int) []countPair {
	out := make([]countPair, 0, len(m))
	for name, n := range m {
		out = append(out, countPair{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

type yearPair struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

func yearPairs(m map[int]int) []yearPair {
	out := make([]yearPair, 0, len(m))
	for y, n := range m {
		out = append(out, yearPair{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
