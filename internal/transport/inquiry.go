package transport

import (
	"net/http"

	"talentdesk/internal/domain"
	"talentdesk/internal/paging"
	"talentdesk/pkg/api"
	apperrors "talentdesk/pkg/errors"
)

// submitInquiry is the public contact form endpoint
func (s *Server) submitInquiry(w http.ResponseWriter, r *http.Request) error {
	var body api.InquirySubmission
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	inquiry, err := s.svc.Contact.Submit(r.Context(), &body)
	if err != nil {
		return err
	}
	writeJSON(r.Context(), w, http.StatusCreated, api.NewInquiry(inquiry))
	return nil
}

func (s *Server) listInquiries(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeStaff)
	if err != nil {
		return err
	}
	q, err := api.ParseInquiryQuery(r.URL.Query())
	if err != nil {
		return err
	}
	page, err := s.svc.Contact.List(r.Context(), q, actor)
	if err != nil {
		return err
	}
	writeJSON(r.Context(), w, http.StatusOK, paging.Map(page, api.NewInquiry))
	return nil
}

func (s *Server) getInquiry(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeStaff)
	if err != nil {
		return err
	}
	id, err := s.pathID(r, "id")
	if err != nil {
		return err
	}
	inquiry, err := s.svc.Contact.Get(r.Context(), id, actor)
	if err != nil {
		return err
	}
	writeJSON(r.Context(), w, http.StatusOK, api.NewInquiry(inquiry))
	return nil
}

func (s *Server) deleteInquiry(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeAdmin)
	if err != nil {
		return err
	}
	id, err := s.pathID(r, "id")
	if err != nil {
		return err
	}
	if err := s.svc.Contact.Delete(r.Context(), id, actor); err != nil {
		return err
	}
	return noContent(w)
}

// claimInquiry answers 200 with the claim result whether or not the claim
// won; only a missing inquiry or a bad session is an HTTP error.
func (s *Server) claimInquiry(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeStaff)
	if err != nil {
		return err
	}
	id, err := s.pathID(r, "id")
	if err != nil {
		return err
	}
	result, err := s.svc.Contact.Claim(r.Context(), id, actor)
	if err != nil {
		return err
	}
	writeJSON(r.Context(), w, http.StatusOK, result)
	return nil
}

// changeInquiryStatus answers 422 with the change-status result, including
// its validationErrors, when the transition is not allowed.
func (s *Server) changeInquiryStatus(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeStaff)
	if err != nil {
		return err
	}
	id, err := s.pathID(r, "id")
	if err != nil {
		return err
	}
	var body api.ChangeStatusRequest
	if err := decodeBody(r, &body); err != nil {
		return err
	}
	result, err := s.svc.Contact.ChangeStatus(r.Context(), id, &body, actor)
	if err != nil {
		if apperrors.IsInvalidTransition(err) && result != nil {
			writeJSON(r.Context(), w, StatusFor(apperrors.ErrCodeInvalidTransition), result)
			return nil
		}
		return err
	}
	writeJSON(r.Context(), w, http.StatusOK, result)
	return nil
}

func (s *Server) availableTransitions(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeStaff)
	if err != nil {
		return err
	}
	id, err := s.pathID(r, "id")
	if err != nil {
		return err
	}
	next, err := s.svc.Contact.AvailableTransitions(r.Context(), id, actor)
	if err != nil {
		return err
	}
	if next == nil {
		next = []domain.InquiryStatus{}
	}
	writeJSON(r.Context(), w, http.StatusOK, next)
	return nil
}

func (s *Server) inquiryHistory(w http.ResponseWriter, r *http.Request) error {
	r, actor, err := s.authenticate(r, scopeStaff)
	if err != nil {
		return err
	}
	id, err := s.pathID(r, "id")
	if err != nil {
		return err
	}
	entries, err := s.svc.Contact.History(r.Context(), id, actor)
	if err != nil {
		return err
	}
	out := make([]api.HistoryEntry, len(entries))
	for i := range entries {
		out[i] = api.NewHistoryEntry(&entries[i])
	}
	writeJSON(r.Context(), w, http.StatusOK, out)
	return nil
}
