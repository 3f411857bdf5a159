package http

import (
	"errors"
	"net/http"
	"strconv"
	"sync/atomic"

	"teachjournal/internal/core"
	applog "teachjournal/internal/log"
	"teachjournal/internal/services"
)

type journalIndexResponse struct {
	services.EntryPage
	services.Summary
	ShowCreateForm bool `json:"show_create_form"`
}

type profileMissingResponse struct {
	Error          string `json:"error"`
	ShowCreateForm bool   `json:"show_create_form"`
}

// handleJournalIndex lists the caller's entries ten per page with today's
// and this week's totals. A missing profile is a setup message, not an error.
func (s *Server) handleJournalIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := identity(r)

	page, err := s.journal.List(ctx, id, parsePage(r.URL.Query()))
	if errors.Is(err, core.ErrProfileNotFound) {
		writeJSON(w, profileMissingResponse{Error: msgProfileSetup})
		return
	}
	if err != nil {
		s.writeServiceError(w, r, applog.OpList, err)
		return
	}

	summary, err := s.stats.Summary(ctx, id)
	if err != nil {
		s.writeServiceError(w, r, applog.OpList, err)
		return
	}

	writeJSON(w, journalIndexResponse{
		EntryPage:      page,
		Summary:        summary,
		ShowCreateForm: true,
	})
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	in, err := parseEntryInput(w, r)
	if err != nil {
		s.writeServiceError(w, r, applog.OpCreate, err)
		return
	}

	entry, err := s.journal.Create(r.Context(), identity(r), in)
	if err != nil {
		s.writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	atomic.AddInt64(&s.appMetrics.entriesCreated, 1)

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/journal/"+strconv.FormatInt(entry.ID, 10)).
		Body(entryBody{Message: msgEntryCreated, Entry: entry}).
		Write(w)
}

func (s *Server) handleShowEntry(w http.ResponseWriter, r *http.Request) {
	entryID, ok := parseEntryID(r)
	if !ok {
		s.writeServiceError(w, r, applog.OpRead, core.ErrNotFound)
		return
	}

	entry, err := s.journal.Get(r.Context(), identity(r), entryID)
	if err != nil {
		s.writeServiceError(w, r, applog.OpRead, err)
		return
	}
	writeJSON(w, entryBody{Entry: entry})
}

// handleUpdateEntry serves both PUT and PATCH; either replaces every
// editable field.
func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	entryID, ok := parseEntryID(r)
	if !ok {
		s.writeServiceError(w, r, applog.OpUpdate, core.ErrNotFound)
		return
	}
	in, err := parseEntryInput(w, r)
	if err != nil {
		s.writeServiceError(w, r, applog.OpUpdate, err)
		return
	}

	entry, err := s.journal.Update(r.Context(), identity(r), entryID, in)
	if err != nil {
		s.writeServiceError(w, r, applog.OpUpdate, err)
		return
	}
	atomic.AddInt64(&s.appMetrics.entriesUpdated, 1)
	writeJSON(w, entryBody{Message: msgEntryUpdated, Entry: entry})
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	entryID, ok := parseEntryID(r)
	if !ok {
		s.writeServiceError(w, r, applog.OpDelete, core.ErrNotFound)
		return
	}

	if err := s.journal.Delete(r.Context(), identity(r), entryID); err != nil {
		s.writeServiceError(w, r, applog.OpDelete, err)
		return
	}
	atomic.AddInt64(&s.appMetrics.entriesDeleted, 1)
	writeJSON(w, messageBody{Message: msgEntryDeleted})
}
