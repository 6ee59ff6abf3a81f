package api

import (
	"net/http"

	"github.com/numboxia/chainsign/document"
	"github.com/numboxia/chainsign/stream"
)

// StatsResponse aggregates document counts and, when a broker is
// configured, live stream statistics.
type StatsResponse struct {
	Documents DocumentCountsResponse `json:"documents"`
	Stream    *stream.BrokerStats    `json:"stream,omitempty"`
}

func (a *API) stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var counts DocumentCountsResponse
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
			counts.Pending = count
		case document.StatusApproved:
			counts.Approved = count
		case document.StatusRejected:
			counts.Rejected = count
		}
	}
	counts.Total = counts.Pending + counts.Approved + counts.Rejected

	resp := StatsResponse{Documents: counts}
	if a.broker != nil {
		stats := a.broker.Stats()
		resp.Stream = &stats
	}
	a.writeJSON(w, http.StatusOK, resp)
}
