package http

import (
	"net/http"

	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/export"
)

type revenueListResponse struct {
	Entries    []domain.RevenueEntry `json:"entries"`
	Pagination domain.Pagination     `json:"pagination"`
}

type metricListResponse struct {
	Metrics    []domain.WebsiteMetric `json:"metrics"`
	Pagination domain.Pagination      `json:"pagination"`
}

func (s *Server) listRevenue(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listRevenue"

	f, err := revenueFilter(r.URL.Query())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	page, err := s.svc.Revenue.List(r.Context(), f)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, revenueListResponse{Entries: page.Items, Pagination: page.Pagination})
}

func (s *Server) createRevenue(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.createRevenue"

	var req revenueRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	e, err := s.svc.Revenue.Create(r.Context(), req.input())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, e)
}

func (s *Server) deleteRevenue(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.deleteRevenue"

	id, err := pathID(r, "revenue entry")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.svc.Revenue.Delete(r.Context(), id); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respondSuccess(w)
}

func (s *Server) exportRevenue(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.exportRevenue"

	f, err := revenueFilter(r.URL.Query())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	b, err := s.svc.Revenue.Export(r.Context(), f)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respondFile(w, export.ContentType, export.Filename("revenue", s.now()), b)
}

func (s *Server) listMetrics(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listMetrics"

	f, err := metricFilter(r.URL.Query())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	page, err := s.svc.Metrics.List(r.Context(), f)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, metricListResponse{Metrics: page.Items, Pagination: page.Pagination})
}

func (s *Server) recordMetric(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.recordMetric"

	var req metricRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	m, err := s.svc.Metrics.Record(r.Context(), req.input())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, m)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.dashboard"

	summary, err := s.svc.Dashboard.Summary(r.Context())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, summary)
}
