// Package api implements the HTTP handlers for the search service.
//
// Routes:
//
//	POST /search          → run a search for an e-mail, honouring the daily quota
//	GET  /search/preview  → free-tier search without e-mail or quota
//	GET  /jobs            → raw store listing with pagination
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"jobmate/search-service/internal/entitlement"
	"jobmate/search-service/internal/model"
	"jobmate/search-service/internal/search"
	"jobmate/search-service/internal/store"
)

const (
	defaultPageSize = 10
	defaultLimit    = 10
	maxLimit        = 100
	minFieldLen     = 2

	msgSuccess      = "Busca realizada com sucesso! Você receberá as vagas no seu email em breve."
	msgPreview      = "Prévia da busca gerada com sucesso."
	msgInvalid      = "Dados inválidos"
	msgInvalidQuery = "Parâmetros inválidos"
	msgMissing      = "Parâmetros insuficientes. É necessário fornecer location, country e jobType."
	msgLimitReached = "Você já realizou uma busca hoje. Assine o plano Premium para buscas ilimitadas."
	msgInternal     = "Erro interno do servidor"
)

// ─── Request / response types ────────────────────────────────────────────────

type searchRequest struct {
	Email    string        `json:"email"`
	Location string        `json:"location"`
	Country  string        `json:"country"`
	JobType  string        `json:"jobType"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Filters  model.Filters `json:"filters"`
	UseCache *bool         `json:"useCache"`
}

// SearchResponse is the JSON shape returned for POST /search and the
// preview.
type SearchResponse struct {
	Success         bool               `json:"success"`
	Message         string             `json:"message"`
	JobCount        int                `json:"jobCount"`
	Jobs            []model.JobPosting `json:"jobs"`
	TotalJobs       int                `json:"totalJobs"`
	TotalPages      int                `json:"totalPages"`
	CurrentPage     int                `json:"currentPage"`
	Stage           string             `json:"stage,omitempty"`
	FromCache       bool               `json:"fromCache"`
	Notified        bool               `json:"notified"`
	IsPremium       bool               `json:"isPremium"`
	Preview         bool               `json:"preview,omitempty"`
	ExecutionTimeMs int64              `json:"executionTimeMs"`
}

// JobsResponse is the JSON shape returned for GET /jobs.
type JobsResponse struct {
	Success    bool               `json:"success"`
	Data       []model.JobPosting `json:"data"`
	Pagination Pagination         `json:"pagination"`
}

type Pagination struct {
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// ─── Handler ─────────────────────────────────────────────────────────────────

// Searcher runs the pipeline, normally *search.Service.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (*search.Result, error)
}

// Handler holds shared dependencies.
type Handler struct {
	searcher Searcher
	store    store.Reader
	checker  entitlement.Checker
}

// NewHandler returns a configured Handler.
func NewHandler(searcher Searcher, st store.Reader, checker entitlement.Checker) *Handler {
	return &Handler{searcher: searcher, store: st, checker: checker}
}

// RegisterRoutes mounts all search-service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /search", h.handleSearch)
	mux.HandleFunc("GET /search/preview", h.handlePreview)
	mux.HandleFunc("GET /jobs", h.handleJobs)
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{
			Message: msgInvalid,
			Errors:  []fieldError{{Field: "body", Message: "JSON inválido"}},
		})
		return
	}
	if errs := validate(body); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, errorResponse{Message: msgInvalid, Errors: errs})
		return
	}

	ctx := r.Context()
	email := strings.TrimSpace(body.Email)
	premium := h.isPremium(ctx, email)
	if !premium && h.hasSearchedToday(ctx, email) {
		no := false
		writeError(w, http.StatusForbidden, errorResponse{
			Message:      msgLimitReached,
			IsPremium:    &no,
			LimitReached: true,
		})
		return
	}

	if err := h.checker.RecordSearch(ctx, entitlement.Search{
		Email:    email,
		Location: body.Location,
		Country:  body.Country,
		JobType:  body.JobType,
	}); err != nil {
		slog.Warn("record search failed", "email", email, "err", err)
	}

	tier := model.TierFree
	if premium {
		tier = model.TierPremium
	}
	useCache := body.UseCache == nil || *body.UseCache
	q := model.SearchQuery{
		Location: body.Location,
		Country:  body.Country,
		JobType:  body.JobType,
		Filters:  body.Filters,
		Tier:     tier,
		Page:     body.Page,
		PageSize: orDefault(body.PageSize, defaultPageSize),
		UseCache: useCache,
	}
	h.runSearch(w, r, search.Request{Query: q, Recipient: email}, false)
}

func (h *Handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	location := strings.TrimSpace(params.Get("location"))
	country := strings.TrimSpace(params.Get("country"))
	jobType := strings.TrimSpace(params.Get("jobType"))
	if location == "" || country == "" || jobType == "" {
		writeError(w, http.StatusBadRequest, errorResponse{Message: msgMissing})
		return
	}

	q := model.SearchQuery{
		Location: location,
		Country:  country,
		JobType:  jobType,
		Tier:     model.TierFree,
		Page:     intParam(params.Get("page"), 1),
		PageSize: intParam(params.Get("pageSize"), defaultPageSize),
		UseCache: true,
	}
	h.runSearch(w, r, search.Request{Query: q}, true)
}

func (h *Handler) runSearch(w http.ResponseWriter, r *http.Request, req search.Request, preview bool) {
	res, err := h.searcher.Search(r.Context(), req)
	if err != nil {
		var verr *search.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, errorResponse{
				Message: msgInvalid,
				Errors:  []fieldError{{Field: "query", Message: verr.Msg}},
			})
			return
		}
		slog.Error("search failed", "requestId", RequestID(r.Context()), "err", err)
		writeError(w, http.StatusInternalServerError, errorResponse{Message: msgInternal})
		return
	}

	jobs := res.Postings
	if jobs == nil {
		jobs = []model.JobPosting{}
	}
	msg := msgSuccess
	if preview {
		msg = msgPreview
	}
	jsonOK(w, SearchResponse{
		Success:         true,
		Message:         msg,
		JobCount:        len(jobs),
		Jobs:            jobs,
		TotalJobs:       res.TotalJobs,
		TotalPages:      res.TotalPages,
		CurrentPage:     res.CurrentPage,
		Stage:           string(res.Stage),
		FromCache:       res.FromCache,
		Notified:        res.Notified,
		IsPremium:       req.Query.Tier.IsPremium(),
		Preview:         preview,
		ExecutionTimeMs: res.Elapsed.Milliseconds(),
	})
}

func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	page, errPage := positiveParam(params.Get("page"), 1)
	limit, errLimit := positiveParam(params.Get("limit"), defaultLimit)
	if errPage != nil || errLimit != nil || limit > maxLimit {
		writeError(w, http.StatusBadRequest, errorResponse{Message: msgInvalidQuery})
		return
	}

	postings, total, err := h.store.QueryPostings(r.Context(), store.Query{
		Location: strings.TrimSpace(params.Get("location")),
		Country:  strings.TrimSpace(params.Get("country")),
		Keyword:  strings.TrimSpace(params.Get("jobType")),
		Limit:    limit,
		Page:     page,
	})
	if err != nil {
		slog.Error("list jobs failed", "requestId", RequestID(r.Context()), "err", err)
		writeError(w, http.StatusInternalServerError, errorResponse{Message: msgInternal})
		return
	}
	if postings == nil {
		postings = []model.JobPosting{}
	}

	pages := (total + limit - 1) / limit
	jsonOK(w, JobsResponse{
		Success: true,
		Data:    postings,
		Pagination: Pagination{
			Page:        page,
			Limit:       limit,
			TotalCount:  total,
			TotalPages:  pages,
			HasNextPage: page < pages,
			HasPrevPage: page > 1,
		},
	})
}

// isPremium and hasSearchedToday degrade to "free" and "not searched" when
// the lookup fails.
func (h *Handler) isPremium(ctx context.Context, email string) bool {
	ok, err := h.checker.IsPremium(ctx, email)
	if err != nil {
		slog.Warn("premium lookup failed, treating as free", "email", email, "err", err)
		return false
	}
	return ok
}

func (h *Handler) hasSearchedToday(ctx context.Context, email string) bool {
	ok, err := h.checker.HasSearchedToday(ctx, email)
	if err != nil {
		slog.Warn("quota lookup failed, allowing search", "email", email, "err", err)
		return false
	}
	return ok
}

// ─── Validation ──────────────────────────────────────────────────────────────

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func validate(b searchRequest) []fieldError {
	var errs []fieldError
	if addr, err := mail.ParseAddress(strings.TrimSpace(b.Email)); err != nil || addr.Address != strings.TrimSpace(b.Email) {
		errs = append(errs, fieldError{"email", "Email inválido"})
	}
	if utf8.RuneCountInString(strings.TrimSpace(b.Location)) < minFieldLen {
		errs = append(errs, fieldError{"location", "Localização muito curta"})
	}
	if utf8.RuneCountInString(strings.TrimSpace(b.Country)) < minFieldLen {
		errs = append(errs, fieldError{"country", "País muito curto"})
	}
	if utf8.RuneCountInString(strings.TrimSpace(b.JobType)) < minFieldLen {
		errs = append(errs, fieldError{"jobType", "Tipo de vaga muito curto"})
	}
	if b.PageSize < 0 {
		errs = append(errs, fieldError{"pageSize", "Tamanho de página inválido"})
	}
	return errs
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

func intParam(s string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return v
}

func positiveParam(s string, fallback int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 1 {
		return 0, strconv.ErrRange
	}
	return v, nil
}
