package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sells-group/prospector-cli/internal/app"
	"github.com/sells-group/prospector-cli/internal/chat"
	"github.com/sells-group/prospector-cli/internal/dashboard"
	"github.com/sells-group/prospector-cli/internal/model"
)

// notices attaches a per-request notice collector to the request context.
func notices(r *http.Request) (context.Context, *app.Notices) {
	n := &app.Notices{}
	return app.WithNotifier(r.Context(), n), n
}

type dashboardResponse struct {
	Stats dashboard.Stats  `json:"stats"`
	Cards []dashboard.Card `json:"cards,omitempty"`
}

func (s *Server) getDashboard(w http.ResponseWriter, _ *http.Request) {
	resp := dashboardResponse{Stats: s.ctrl.Dashboard()}
	if s.fmt != nil {
		resp.Cards = s.fmt.Cards(resp.Stats)
	}
	writeData(w, http.StatusOK, resp, &app.Notices{})
}

func (s *Server) getBoard(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, s.ctrl.Board(), &app.Notices{})
}

type viewResponse struct {
	View app.View `json:"view"`
}

func (s *Server) getView(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, viewResponse{View: s.ctrl.View()}, &app.Notices{})
}

func (s *Server) postView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.ctrl.Navigate(app.View(req.View)); err != nil {
		s.fail(w, err, nil)
		return
	}
	writeData(w, http.StatusOK, viewResponse{View: s.ctrl.View()}, &app.Notices{})
}

func (s *Server) getSearch(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, s.ctrl.Search().Snapshot(), &app.Notices{})
}

// postSearch blocks until the backend answers.
func (s *Server) postSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}
	ctx, n := notices(r)
	if _, err := s.ctrl.RunSearch(ctx, req.Niche, req.Location); err != nil {
		s.fail(w, err, n)
		return
	}
	writeData(w, http.StatusOK, s.ctrl.Search().Snapshot(), n)
}

func (s *Server) postLocate(w http.ResponseWriter, r *http.Request) {
	ctx, n := notices(r)
	if _, err := s.ctrl.UseMyLocation(ctx); err != nil {
		s.fail(w, err, n)
		return
	}
	writeData(w, http.StatusOK, s.ctrl.Search().Snapshot(), n)
}

// postSelect starts enrichment and returns at once; clients poll GET
// /api/search for the merged results.
func (s *Server) postSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !s.decode(w, r, &req) {
		return
	}
	ctx, n := notices(r)
	if _, err := s.ctrl.SelectLead(ctx, req.ID); err != nil {
		s.fail(w, err, n)
		return
	}
	writeData(w, http.StatusAccepted, s.ctrl.Search().Snapshot(), n)
}

func (s *Server) postSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if !s.decode(w, r, &req) {
		return
	}
	ctx, n := notices(r)

	var (
		saved model.BusinessLead
		ok    bool
		err   error
	)
	if req.ID == "" {
		saved, ok, err = s.ctrl.SaveSelected(ctx)
	} else {
		saved, ok, err = s.ctrl.SaveResult(ctx, req.ID)
	}
	s.respondSaved(w, saved, ok, err, n)
}

func (s *Server) respondSaved(w http.ResponseWriter, saved model.BusinessLead, ok bool, err error, n *app.Notices) {
	switch {
	case err != nil:
		s.fail(w, err, n)
	case !ok:
		writeError(w, http.StatusConflict, app.NoticeAlreadySaved, n)
	default:
		writeData(w, http.StatusCreated, saved, n)
	}
}

func (s *Server) listLeads(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, s.ctrl.Leads(), &app.Notices{})
}

func (s *Server) createLead(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	if !s.decode(w, r, &req) {
		return
	}
	ctx, n := notices(r)
	saved, ok := s.ctrl.SaveLead(ctx, req.lead())
	s.respondSaved(w, saved, ok, nil, n)
}

func (s *Server) updateLead(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !s.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	ctx, n := notices(r)
	ok, err := s.ctrl.UpdateLeadStatus(ctx, id, model.CRMStatus(req.Status))
	switch {
	case err != nil:
		s.fail(w, err, n)
	case !ok:
		writeError(w, http.StatusNotFound, "lead not found", n)
	default:
		lead := findLead(s.ctrl.Leads(), id)
		writeData(w, http.StatusOK, lead, n)
	}
}

// deleteLead removes a lead only when the request carries confirm=true.
func (s *Server) deleteLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if findLead(s.ctrl.Leads(), id) == nil {
		writeError(w, http.StatusNotFound, "lead not found", nil)
		return
	}
	confirmed := r.URL.Query().Get("confirm") == "true"
	ctx, n := notices(r)
	ctx = app.WithConfirmer(ctx, app.Answer(confirmed))
	if !s.ctrl.RemoveLead(ctx, id) {
		writeError(w, http.StatusConflict, "removal requires confirm=true", n)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func findLead(leads []model.BusinessLead, id string) *model.BusinessLead {
	for i := range leads {
		if leads[i].ID == id {
			return &leads[i]
		}
	}
	return nil
}

type chatResponse struct {
	State    chat.TurnState      `json:"state"`
	Messages []model.ChatMessage `json:"messages"`
	Reply    *model.ChatMessage  `json:"reply,omitempty"`
}

func (s *Server) chatState(reply *model.ChatMessage) chatResponse {
	c := s.ctrl.Chat()
	return chatResponse{State: c.State(), Messages: c.Messages(), Reply: reply}
}

func (s *Server) getChat(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, s.chatState(nil), &app.Notices{})
}

// postChat blocks until the reply is appended. Blank input changes nothing.
func (s *Server) postChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decode(w, r, &req) {
		return
	}
	ctx, n := notices(r)
	reply, err := s.ctrl.SendChat(ctx, req.Text)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		writeData(w, http.StatusOK, s.chatState(nil), n)
	case err != nil:
		s.fail(w, err, n)
	default:
		writeData(w, http.StatusOK, s.chatState(&reply), n)
	}
}
