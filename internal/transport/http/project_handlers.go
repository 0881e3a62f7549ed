package http

import (
	"net/http"

	"github.com/YusovID/agency-backoffice/internal/domain"
)

type projectListResponse struct {
	Projects   []domain.Project  `json:"projects"`
	Pagination domain.Pagination `json:"pagination"`
}

type taskListResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listProjects"

	f, err := projectFilter(r.URL.Query())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	page, err := s.svc.Projects.List(r.Context(), f)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, projectListResponse{Projects: page.Items, Pagination: page.Pagination})
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.createProject"

	var req projectRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	p, err := s.svc.Projects.Create(r.Context(), req.input())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, p)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getProject"

	id, err := pathID(r, "project")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	p, err := s.svc.Projects.Get(r.Context(), id)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, p)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.updateProject"

	id, err := pathID(r, "project")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req projectRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	p, err := s.svc.Projects.Update(r.Context(), id, req.input())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, p)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.deleteProject"

	id, err := pathID(r, "project")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.svc.Projects.Delete(r.Context(), id); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respondSuccess(w)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listTasks"

	projectID, err := pathID(r, "project")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	tasks, err := s.svc.Tasks.ListByProject(r.Context(), projectID)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, taskListResponse{Tasks: tasks})
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.createTask"

	projectID, err := pathID(r, "project")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req taskRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	t, err := s.svc.Tasks.Create(r.Context(), projectID, req.input())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, t)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.updateTask"

	id, err := pathID(r, "task")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	var req taskRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	t, err := s.svc.Tasks.Update(r.Context(), id, req.input())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, t)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.deleteTask"

	id, err := pathID(r, "task")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	if err := s.svc.Tasks.Delete(r.Context(), id); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respondSuccess(w)
}
