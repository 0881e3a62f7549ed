package http

import (
	"net/http"

	"github.com/YusovID/agency-backoffice/internal/domain"
)

const quoteSource = "quote"

type leadResponse struct {
	Contact   *domain.Contact `json:"contact"`
	EmailSent bool            `json:"emailSent"`
}

type contactListResponse struct {
	Contacts   []domain.Contact  `json:"contacts"`
	Pagination domain.Pagination `json:"pagination"`
}

// submitLead handles the public forms. defaultSource is used when the form
// does not name one.
func (s *Server) submitLead(defaultSource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "internal.transport.http.submitLead"

		var req leadRequest
		if err := s.decodeAndValidate(w, r, &req); err != nil {
			s.handleServiceError(w, r, op, err)
			return
		}

		in := req.input()
		if in.Source == "" {
			in.Source = defaultSource
		}

		res, err := s.svc.Contacts.SubmitLead(r.Context(), in)
		if err != nil {
			s.handleServiceError(w, r, op, err)
			return
		}

		s.respond(w, http.StatusCreated, leadResponse{Contact: res.Contact, EmailSent: res.EmailSent})
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.login"

	var req loginRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	token, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, token)
}

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listContacts"

	f, err := contactFilter(r.URL.Query())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	page, err := s.svc.Contacts.List(r.Context(), f)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, contactListResponse{Contacts: page.Items, Pagination: page.Pagination})
}

func (s *Server) createContact(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.createContact"

	var req contactRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	c, err := s.svc.Contacts.Create(r.Context(), req.input())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, c)
}

func (s *Server) getContact(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getContact"

	id, err := pathID(r, "contact")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	c, err := s.svc.Contacts.Get(r.Context(), id)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, c)
}

func (s *Server) updateContact(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.updateContact"

	id, err := pathID(r, "contact")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req contactRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	c, err := s.svc.Contacts.Update(r.Context(), id, req.input())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, c)
}

func (s *Server) updateContactStatus(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.updateContactStatus"

	id, err := pathID(r, "contact")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req contactStatusRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	c, err := s.svc.Contacts.UpdateStatus(r.Context(), id, domain.ContactStatus(req.Status))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, c)
}

func (s *Server) deleteContact(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.deleteContact"

	id, err := pathID(r, "contact")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.svc.Contacts.Delete(r.Context(), id); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respondSuccess(w)
}
