package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	repos "github.com/brightlines/interference-tracker/internal/data/repos/incidents"
	types "github.com/brightlines/interference-tracker/internal/domain"
	"github.com/brightlines/interference-tracker/internal/http/response"
	"github.com/brightlines/interference-tracker/internal/ingest/normalize"
	"github.com/brightlines/interference-tracker/internal/ingest/sanitize"
	"github.com/brightlines/interference-tracker/internal/pkg/apierr"
	"github.com/brightlines/interference-tracker/internal/pkg/logger"
)

// AdminHandler covers manual curation: single-incident upsert with a full
// relation replace, and deletion. Writes run in one transaction so relation
// state never drifts from the incident row.
type AdminHandler struct {
	log       *logger.Logger
	db        *gorm.DB
	incidents repos.IncidentRepo
	countries repos.CountryRepo
	actors    repos.ActorRepo
	tools     repos.ToolRepo
	sources   repos.SourceRepo
	links     repos.LinkRepo
}

func NewAdminHandler(
	log *logger.Logger,
	db *gorm.DB,
	incidents repos.IncidentRepo,
	countries repos.CountryRepo,
	actors repos.ActorRepo,
	tools repos.ToolRepo,
	sources repos.SourceRepo,
	links repos.LinkRepo,
) *AdminHandler {
	return &AdminHandler{
		log:       log.With("handler", "AdminHandler"),
		db:        db,
		incidents: incidents,
		countries: countries,
		actors:    actors,
		tools:     tools,
		sources:   sources,
		links:     links,
	}
}

type adminTerm struct {
	TermID      int64  `json:"term_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Taxonomy    string `json:"taxonomy"`
	Description string `json:"description"`
}

type adminIncidentRequest struct {
	Slug      string      `json:"slug"`
	Title     string      `json:"title"`
	Link      string      `json:"link"`
	Content   string      `json:"content"`
	Excerpt   string      `json:"excerpt"`
	DateText  string      `json:"date_text"`
	StartDate string      `json:"start_date"`
	EndDate   string      `json:"end_date"`
	Display   *bool       `json:"display"`
	Countries []string    `json:"countries"`
	Actors    []adminTerm `json:"actors"`
	Tools     []adminTerm `json:"tools"`
	Sources   []string    `json:"sources"`
}

// PUT /api/admin/incidents/:postID
func (h *AdminHandler) UpsertIncident(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("postID"), 10, 64)
	if err != nil || postID <= 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_post_id", errors.New("post id must be a positive integer"))
		return
	}

	var req adminIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	display := true
	if req.Display != nil {
		display = *req.Display
	}

	record := &types.Incident{
		PostID:       postID,
		Slug:         req.Slug,
		Title:        sanitize.CleanText(req.Title),
		Link:         req.Link,
		ContentClean: sanitize.CleanText(req.Content),
		ExcerptClean: sanitize.CleanText(req.Excerpt),
		DateText:     req.DateText,
		StartDate:    normalize.DatePtr(req.StartDate),
		EndDate:      normalize.DatePtr(req.EndDate),
		Display:      display,
	}

	ctx := c.Request.Context()
	var saved *types.Incident
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		saved, txErr = h.incidents.Upsert(ctx, tx, record)
		if txErr != nil {
			return txErr
		}

		var countryIDs []uint
		for _, name := range req.Countries {
			country, cErr := h.countries.GetOrCreate(ctx, tx, name)
			if cErr != nil {
				return cErr
			}
			countryIDs = append(countryIDs, country.ID)
		}
		if txErr = h.links.ReplaceCountries(ctx, tx, saved.ID, countryIDs); txErr != nil {
			return txErr
		}

		var actorIDs []uint
		for _, term := range req.Actors {
			actor, aErr := h.actors.Upsert(ctx, tx, &types.Actor{
				TermID:      term.TermID,
				Name:        term.Name,
				Slug:        term.Slug,
				Taxonomy:    term.Taxonomy,
				Description: term.Description,
			})
			if aErr != nil {
				return aErr
			}
			actorIDs = append(actorIDs, actor.ID)
		}
		if txErr = h.links.ReplaceActors(ctx, tx, saved.ID, actorIDs); txErr != nil {
			return txErr
		}

		var toolIDs []uint
		for _, term := range req.Tools {
			tool, tErr := h.tools.Upsert(ctx, tx, &types.Tool{
				TermID:      term.TermID,
				Name:        term.Name,
				Slug:        term.Slug,
				Taxonomy:    term.Taxonomy,
				Description: term.Description,
			})
			if tErr != nil {
				return tErr
			}
			toolIDs = append(toolIDs, tool.ID)
		}
		if txErr = h.links.ReplaceTools(ctx, tx, saved.ID, toolIDs); txErr != nil {
			return txErr
		}

		var sourceIDs []uint
		for _, raw := range req.Sources {
			url, ok := normalize.URL(raw)
			if !ok {
				continue
			}
			domain, _ := normalize.Domain(url)
			source, sErr := h.sources.Upsert(ctx, tx, &types.Source{URL: url, Domain: domain})
			if sErr != nil {
				return sErr
			}
			sourceIDs = append(sourceIDs, source.ID)
		}
		return h.links.ReplaceSources(ctx, tx, saved.ID, sourceIDs)
	})
	if err != nil {
		if errors.Is(err, repos.ErrInvalidPostID) {
			response.RespondAppError(c, apierr.New(http.StatusBadRequest, "invalid_post_id", err))
			return
		}
		response.RespondAppError(c, apierr.New(http.StatusInternalServerError, "upsert_incident_failed", err))
		return
	}

	h.log.Info("admin incident upserted", "post_id", postID)
	response.RespondOK(c, gin.H{"incident": saved})
}

// DELETE /api/admin/incidents/:postID
func (h *AdminHandler) DeleteIncident(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("postID"), 10, 64)
	if err != nil || postID <= 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_post_id", errors.New("post id must be a positive integer"))
		return
	}

	if err := h.incidents.DeleteByPostID(c.Request.Context(), nil, postID); err != nil {
		response.RespondAppError(c, apierr.New(http.StatusInternalServerError, "delete_incident_failed", err))
		return
	}

	h.log.Info("admin incident deleted", "post_id", postID)
	response.RespondOK(c, gin.H{"deleted": postID})
}
