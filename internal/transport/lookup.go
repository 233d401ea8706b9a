package transport

import (
	"net/http"

	"talentdesk/internal/domain"
	"talentdesk/internal/paging"
	"talentdesk/pkg/api"
	apperrors "talentdesk/pkg/errors"
)

func (s *Server) lookupKind(r *http.Request) (domain.LookupKind, error) {
	kind, err := domain.ParseLookupKind(s.mux.Vars(r)["kind"])
	if err != nil {
		return "", apperrors.New(apperrors.ErrCodeNotFound, err.Error())
	}
	return kind, nil
}

func (s *Server) listLookups(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeStaff)
	if err != nil {
		return err
	}
	kind, err := s.lookupKind(r)
	if err != nil {
		return err
	}
	params, err := api.ParsePageParams(r.URL.Query())
	if err != nil {
		return err
	}
	page, err := s.svc.Lookup.List(r.Context(), kind, r.URL.Query().Get("search"), params, actor)
	if err != nil {
		return err
	}
	writeJSON(r.Context(), w, http.StatusOK, paging.Map(page, api.NewLookupItem))
	return nil
}

func (s *Server) getLookup(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeStaff)
	if err != nil {
		return err
	}
	kind, err := s.lookupKind(r)
	if err != nil {
		return err
	}
	id, err := s.pathID(r, "id")
	if err != nil {
		return err
	}
	item, err := s.svc.Lookup.Get(r.Context(), kind, id, actor)
	if err != nil {
		return err
	}
	writeJSON(r.Context(), w, http.StatusOK, api.NewLookupItem(item))
	return nil
}

func (s *Server) createLookup(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeAdmin)
	if err != nil {
		return err
	}
	kind, err := s.lookupKind(r)
	if err != nil {
		return err
	}
	var body api.LookupRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	item, err := s.svc.Lookup.Create(r.Context(), kind, &body, actor)
	if err != nil {
		return err
	}
	writeJSON(r.Context(), w, http.StatusCreated, api.NewLookupItem(item))
	return nil
}

func (s *Server) updateLookup(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeAdmin)
	if err != nil {
		return err
	}
	kind, err := s.lookupKind(r)
	if err != nil {
		return err
	}
	id, err := s.pathID(r, "id")
	if err != nil {
		return err
	}
	var body api.LookupRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	item, err := s.svc.Lookup.Update(r.Context(), kind, id, &body, actor)
	if err != nil {
		return err
	}
	writeJSON(r.Context(), w, http.StatusOK, api.NewLookupItem(item))
	return nil
}

func (s *Server) deleteLookup(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeAdmin)
	if err != nil {
		return err
	}
	kind, err := s.lookupKind(r)
	if err != nil {
		return err
	}
	id, err := s.pathID(r, "id")
	if err != nil {
		return err
	}
	if err := s.svc.Lookup.Delete(r.Context(), kind, id, actor); err != nil {
		return err
	}
	return noContent(w)
}
