package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/numboxia/chainsign"
	"github.com/numboxia/chainsign/auth"
	"github.com/numboxia/chainsign/document"
	"github.com/numboxia/chainsign/engine"
)

// SubmitDocumentRequest is the body of POST /v1/documents. The
// submitter is the authenticated identity, never part of the body.
type SubmitDocumentRequest struct {
	ContentRef string   `json:"content_ref"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Approvers  []string `json:"approvers"`
}

// DocumentCountsResponse reports document counts grouped by status.
type DocumentCountsResponse struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}

func (a *API) submitDocument(w http.ResponseWriter, r *http.Request) {
	submitter, ok := auth.IdentityFrom(r.Context())
	if !ok {
		a.writeError(w, http.StatusUnauthorized, errors.New("no identity in context"))
		return
	}

	var body SubmitDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	approvers := make([]chainsign.Identity, len(body.Approvers))
	for i, raw := range body.Approvers {
		approvers[i] = chainsign.Identity(raw)
	}

	doc, err := a.eng.Submit(r.Context(), engine.SubmitRequest{
		Submitter:  submitter,
		ContentRef: body.ContentRef,
		Name:       body.Name,
		Category:   body.Category,
		Approvers:  approvers,
	})
	if err != nil {
		a.mapError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, doc)
}

func (a *API) getDocument(w http.ResponseWriter, r *http.Request) {
	docID, err := documentIDParam(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	doc, err := a.eng.Get(r.Context(), docID)
	if err != nil {
		a.mapError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, doc)
}

func (a *API) listDocuments(w http.ResponseWriter, r *http.Request) {
	opts := document.ListOpts{
		Limit:     queryInt(r, "limit", 0),
		Offset:    queryInt(r, "offset", 0),
		Status:    document.Status(r.URL.Query().Get("status")),
		Submitter: r.URL.Query().Get("submitter"),
	}

	docs, err := a.eng.List(r.Context(), opts)
	if err != nil {
		a.mapError(w, err)
		return
	}
	if docs == nil {
		docs = []*document.Document{}
	}
	a.writeJSON(w, http.StatusOK, docs)
}

func (a *API) documentCounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := DocumentCountsResponse{}
	for _, status := range []document.Status{
		document.StatusPending,
		document.StatusApproved,
		document.StatusRejected,
	} {
		count, err := a.eng.Count(ctx, status)
		if err != nil {
			a.mapError(w, err)
			return
		}
		switch status {
		case document.StatusPending:
			resp.Pending = count
		case document.StatusApproved:
			resp.Approved = count
		case document.StatusRejected:
			resp.Rejected = count
		}
	}
	resp.Total = resp.Pending + resp.Approved + resp.Rejected
	a.writeJSON(w, http.StatusOK, resp)
}

func (a *API) approveDocument(w http.ResponseWriter, r *http.Request) {
	a.decide(w, r, a.eng.Approve)
}

func (a *API) rejectDocument(w http.ResponseWriter, r *http.Request) {
	a.decide(w, r, a.eng.Reject)
}

func (a *API) decide(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, docID uint64, caller chainsign.Identity) (*document.Document, error)) {
	caller, ok := auth.IdentityFrom(r.Context())
	if !ok {
		a.writeError(w, http.StatusUnauthorized, errors.New("no identity in context"))
		return
	}

	docID, err := documentIDParam(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	doc, err := fn(r.Context(), docID, caller)
	if err != nil {
		a.mapError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, doc)
}
