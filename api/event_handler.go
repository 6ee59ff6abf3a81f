package api

import (
	"net/http"

	"github.com/numboxia/chainsign/event"
)

func (a *API) listEvents(w http.ResponseWriter, r *http.Request) {
	docID, err := documentIDParam(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	events, err := a.eng.History(r.Context(), docID)
	if err != nil {
		a.mapError(w, err)
		return
	}
	if events == nil {
		events = []*event.Event{}
	}
	a.writeJSON(w, http.StatusOK, events)
}
