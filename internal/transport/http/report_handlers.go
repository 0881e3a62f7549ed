package http

import (
	"log/slog"
	"net/http"

	"github.com/YusovID/agency-backoffice/internal/domain"
	"github.com/YusovID/agency-backoffice/internal/export"
)

type reportListResponse struct {
	Reports    []domain.Report   `json:"reports"`
	Pagination domain.Pagination `json:"pagination"`
}

type emailReportResponse struct {
	Success bool   `json:"success"`
	EmailID string `json:"emailId"`
}

func (s *Server) generateReport(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.generateReport"

	var req generateReportRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	rep, err := s.svc.Reports.Generate(r.Context(), req.params())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if claims := getClaims(r.Context()); claims != nil {
		s.log.Info("report requested",
			slog.String("op", op),
			slog.String("report_id", rep.ID),
			slog.String("admin", claims.Email),
		)
	}

	s.respond(w, http.StatusCreated, rep)
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listReports"

	f, err := reportFilter(r.URL.Query())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	page, err := s.svc.Reports.List(r.Context(), f)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, reportListResponse{Reports: page.Items, Pagination: page.Pagination})
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getReport"

	id, err := pathID(r, "report")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	rep, err := s.svc.Reports.Get(r.Context(), id)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, rep)
}

func (s *Server) deleteReport(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.deleteReport"

	id, err := pathID(r, "report")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.svc.Reports.Delete(r.Context(), id); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respondSuccess(w)
}

func (s *Server) downloadReport(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.downloadReport"

	id, err := pathID(r, "report")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	pdf, err := s.svc.Reports.RenderPDF(r.Context(), id)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respondFile(w, "application/pdf", pdf.Filename, pdf.Content)
}

func (s *Server) emailReport(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.emailReport"

	id, err := pathID(r, "report")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	receipt, err := s.svc.Reports.SendEmail(r.Context(), id)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, emailReportResponse{Success: true, EmailID: receipt.EmailID})
}

func (s *Server) exportReports(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.exportReports"

	f, err := reportFilter(r.URL.Query())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	b, err := s.svc.Reports.Export(r.Context(), f)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respondFile(w, export.ContentType, export.Filename("reports", s.now()), b)
}
