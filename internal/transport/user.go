package transport

import (
	"net/http"

	"talentdesk/internal/paging"
	"talentdesk/internal/services"
	"talentdesk/pkg/api"
	apperrors "talentdesk/pkg/errors"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) error {
	writeJSON(r.Context(), w, http.StatusOK, s.svc.Health.Check(r.Context()))
	return nil
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) error {
	var body api.LoginRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	result, err := s.svc.Auth.Login(r.Context(), &body)
	if err != nil {
		return err
	}
	writeJSON(r.Context(), w, http.StatusOK, result)
	return nil
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) error {
	r, _, err := s.authenticate(r)
	if err != nil {
		return err
	}
	user, ok := services.UserFromContext(r.Context())
	if !ok {
		return apperrors.New(apperrors.ErrCodeUnauthorized, "authentication required")
	}
	writeJSON(r.Context(), w, http.StatusOK, api.NewUser(user))
	return nil
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeAdmin)
	if err != nil {
		return err
	}
	params, err := api.ParsePageParams(r.URL.Query())
	if err != nil {
		return err
	}
	page, err := s.svc.Auth.ListUsers(r.Context(), r.URL.Query().Get("search"), params, actor)
	if err != nil {
		return err
	}
	writeJSON(r.Context(), w, http.StatusOK, paging.Map(page, api.NewUser))
	return nil
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeAdmin)
	if err != nil {
		return err
	}
	var body api.CreateUserRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	user, err := s.svc.Auth.CreateUser(r.Context(), &body, actor)
	if err != nil {
		return err
	}
	writeJSON(r.Context(), w, http.StatusCreated, api.NewUser(user))
	return nil
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeAdmin)
	if err != nil {
		return err
	}
	id, err := s.pathID(r, "id")
	if err != nil {
		return err
	}
	user, err := s.svc.Auth.GetUser(r.Context(), id, actor)
	if err != nil {
		return err
	}
	writeJSON(r.Context(), w, http.StatusOK, api.NewUser(user))
	return nil
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeAdmin)
	if err != nil {
		return err
	}
	id, err := s.pathID(r, "id")
	if err != nil {
		return err
	}
	var body api.UpdateUserRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	user, err := s.svc.Auth.UpdateUser(r.Context(), id, &body, actor)
	if err != nil {
		return err
	}
	writeJSON(r.Context(), w, http.StatusOK, api.NewUser(user))
	return nil
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeAdmin)
	if err != nil {
		return err
	}
	id, err := s.pathID(r, "id")
	if err != nil {
		return err
	}
	if err := s.svc.Auth.DeleteUser(r.Context(), id, actor); err != nil {
		return err
	}
	return noContent(w)
}
