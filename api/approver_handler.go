package api

import (
	"net/http"

	"github.com/numboxia/chainsign/approver"
)

func (a *API) listApprovers(w http.ResponseWriter, r *http.Request) {
	docID, err := documentIDParam(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	slots, err := a.eng.SigningOrder(r.Context(), docID)
	if err != nil {
		a.mapError(w, err)
		return
	}
	if slots == nil {
		slots = []approver.Slot{}
	}
	a.writeJSON(w, http.StatusOK, slots)
}

func (a *API) listRecords(w http.ResponseWriter, r *http.Request) {
	docID, err := documentIDParam(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	records, err := a.eng.Approvals(r.Context(), docID)
	if err != nil {
		a.mapError(w, err)
		return
	}
	if records == nil {
		records = []*approver.Record{}
	}
	a.writeJSON(w, http.StatusOK, records)
}
