// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	createapplicationrecord "internship-portal/internal/application/create-application-record"
	indexapplication "internship-portal/internal/application/index-application"
	"internship-portal/internal/common/errors"
	"internship-portal/internal/models"

	"github.com/gorilla/mux"
)

const submitSuccessMessage = "Application submitted successfully! Check your email for confirmation."

type submitResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ApplicationID string `json:"applicationId"`
}

type listResponse struct {
	Success      bool                 `json:"success"`
	Applications []models.Application `json:"applications"`
	TotalPages   int                  `json:"totalPages"`
	CurrentPage  int                  `json:"currentPage"`
	Total        int64                `json:"total"`
}

type statsResponse struct {
	Success bool         `json:"success"`
	Stats   models.Stats `json:"stats"`
}

type applicationResponse struct {
	Success     bool               `json:"success"`
	Application models.Application `json:"application"`
}

type searchResponse struct {
	Success      bool                 `json:"success"`
	Applications []models.Application `json:"applications"`
	Total        int64                `json:"total"`
	Took         int64                `json:"took"`
}

type healthResponse struct {
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      float64   `json:"uptime"`
	Environment string    `json:"environment"`
	Version     string    `json:"version,omitempty"`
	Database    string    `json:"database"`
}

// POST /api/applications
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	input, err := s.decodeObject(w, r)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	// A submission that reached the workflow runs to completion even if the
	// client goes away.
	ctx, cancel := s.withTimeout(context.WithoutCancel(r.Context()))
	defer cancel()

	out, err := s.deps.Submitter.Submit(ctx, input)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	errors.WriteJSON(w, http.StatusCreated, submitResponse{
		Success:       true,
		Message:       submitSuccessMessage,
		ApplicationID: out.ApplicationID,
	})
}

func (s *Server) decodeObject(w http.ResponseWriter, r *http.Request) (map[string]interface{}, error) {
	body := r.Body
	if s.config.MaxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	}

	var input map[string]interface{}
	if err := json.NewDecoder(body).Decode(&input); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.NewPayloadTooLargeError(tooLarge.Limit)
		}
		return nil, errors.NewInvalidRequestBodyError(err)
	}
	if input == nil {
		return nil, errors.NewInvalidRequestBodyError(stderrors.New("body is null"))
	}
	return input, nil
}

// GET /api/applications?page&limit&status
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := s.parseListFilter(r)
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	page, err := s.deps.Reader.List(ctx, filter)
	if err != nil {
		s.errors.HandleHTTPError(w, r, errors.NewQueryFailedError("applications", err))
		return
	}

	errors.WriteJSON(w, http.StatusOK, listResponse{
		Success:      true,
		Applications: page.Applications,
		TotalPages:   page.TotalPages,
		CurrentPage:  page.CurrentPage,
		Total:        page.Total,
	})
}

func (s *Server) parseListFilter(r *http.Request) (models.ListFilter, error) {
	q := r.URL.Query()

	page, limit, err := s.parsePaging(q.Get("page"), q.Get("limit"))
	if err != nil {
		return models.ListFilter{}, err
	}

	filter := models.ListFilter{Page: page, Limit: limit}
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status := models.Status(strings.ToLower(raw))
		if !status.Valid() {
			return models.ListFilter{}, errors.NewInvalidQueryError("status must be one of pending, reviewed, accepted, rejected")
		}
		filter.Status = status
	}
	return filter, nil
}

func (s *Server) parsePaging(rawPage, rawLimit string) (int, int, error) {
	page := 1
	if rawPage != "" {
		n, err := strconv.Atoi(rawPage)
		if err != nil || n < 1 {
			return 0, 0, errors.NewInvalidQueryError("page must be a positive integer")
		}
		page = n
	}

	limit := s.config.DefaultLimit
	if limit < 1 {
		limit = 20
	}
	if rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n < 1 {
			return 0, 0, errors.NewInvalidQueryError("limit must be a positive integer")
		}
		limit = n
	}
	if s.config.MaxLimit > 0 && limit > s.config.MaxLimit {
		limit = s.config.MaxLimit
	}
	if page > math.MaxInt32/limit {
		return 0, 0, errors.NewInvalidQueryError("page is out of range")
	}
	return page, limit, nil
}

// GET /api/applications/stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	stats, err := s.deps.Reader.Stats(ctx)
	if err != nil {
		s.errors.HandleHTTPError(w, r, errors.NewQueryFailedError("statistics", err))
		return
	}

	errors.WriteJSON(w, http.StatusOK, statsResponse{Success: true, Stats: stats})
}

// GET /api/applications/{applicationId}
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	applicationID := strings.TrimSpace(mux.Vars(r)["applicationId"])

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	app, err := s.deps.Reader.GetByApplicationID(ctx, applicationID)
	if err != nil {
		if stderrors.Is(err, createapplicationrecord.ErrApplicationNotFound) {
			s.errors.HandleHTTPError(w, r, errors.NewApplicationNotFoundError(applicationID))
			return
		}
		s.errors.HandleHTTPError(w, r, errors.NewQueryFailedError("application", err))
		return
	}

	errors.WriteJSON(w, http.StatusOK, applicationResponse{Success: true, Application: app})
}

// GET /api/applications/search?q&page&limit
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.deps.Search == nil {
		s.errors.HandleHTTPError(w, r, errors.NewSearchUnavailableError(stderrors.New("search is disabled")))
		return
	}

	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		s.errors.HandleHTTPError(w, r, errors.NewInvalidQueryError("q is required"))
		return
	}
	page, limit, err := s.parsePaging(q.Get("page"), q.Get("limit"))
	if err != nil {
		s.errors.HandleHTTPError(w, r, err)
		return
	}

	ctx, cancel := s.withTimeout(r.Context())
	defer cancel()

	out, err := s.deps.Search.Search(ctx, indexapplication.SearchInput{
		Query: query,
		From:  (page - 1) * limit,
		Size:  limit,
	})
	if err != nil {
		s.errors.HandleHTTPError(w, r, errors.NewSearchUnavailableError(err))
		return
	}

	errors.WriteJSON(w, http.StatusOK, searchResponse{
		Success:      true,
		Applications: out.Applications,
		Total:        out.Total,
		Took:         out.Took,
	})
}

// GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:      "ok",
		Message:     "Server is running",
		Timestamp:   s.now().UTC(),
		Uptime:      s.now().Sub(s.started).Seconds(),
		Environment: s.config.Environment,
		Version:     s.config.Version,
		Database:    "connected",
	}
	status := http.StatusOK

	if err := s.deps.Database.Ping(ctx); err != nil {
		s.logger.Error("health check failed", map[string]interface{}{"error": err.Error()})
		resp.Status = "error"
		resp.Database = "disconnected"
		status = http.StatusServiceUnavailable
	}

	errors.WriteJSON(w, status, resp)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.errors.HandleHTTPError(w, r, errors.NewRouteNotFoundError(r.URL.Path))
}
