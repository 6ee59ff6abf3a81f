package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/numboxia/chainsign/approver"
	"github.com/numboxia/chainsign/document"
	"github.com/numboxia/chainsign/event"
)

// SubmitRequest describes a document submission. The submitter is the
// identity behind the client's token.
type SubmitRequest struct {
	ContentRef string   `json:"content_ref"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Approvers  []string `json:"approvers"`
}

// Counts reports document counts grouped by status.
type Counts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}

// ListOpts filters List calls.
type ListOpts struct {
	Limit     int
	Offset    int
	Status    document.Status
	Submitter string
}

// Submit creates a document with its signing order.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (*document.Document, error) {
	var doc document.Document
	if err := c.do(ctx, http.MethodPost, "/v1/documents", req, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Get retrieves a document by ID.
func (c *Client) Get(ctx context.Context, docID uint64) (*document.Document, error) {
	var doc document.Document
	if err := c.do(ctx, http.MethodGet, documentPath(docID), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns documents matching the given options.
func (c *Client) List(ctx context.Context, opts ListOpts) ([]*document.Document, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Status != "" {
		q.Set("status", string(opts.Status))
	}
	if opts.Submitter != "" {
		q.Set("submitter", opts.Submitter)
	}

	path := "/v1/documents"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var docs []*document.Document
	if err := c.do(ctx, http.MethodGet, path, nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DocumentCounts returns document counts grouped by status.
func (c *Client) DocumentCounts(ctx context.Context) (*Counts, error) {
	var counts Counts
	if err := c.do(ctx, http.MethodGet, "/v1/documents/counts", nil, &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

// Approve records an approval on the document by the client identity.
func (c *Client) Approve(ctx context.Context, docID uint64) (*document.Document, error) {
	var doc document.Document
	if err := c.do(ctx, http.MethodPost, documentPath(docID)+"/approve", nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Reject records a rejection on the document by the client identity.
func (c *Client) Reject(ctx context.Context, docID uint64) (*document.Document, error) {
	var doc document.Document
	if err := c.do(ctx, http.MethodPost, documentPath(docID)+"/reject", nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SigningOrder returns the document's signing order, ordered by
// position.
func (c *Client) SigningOrder(ctx context.Context, docID uint64) ([]approver.Slot, error) {
	var slots []approver.Slot
	if err := c.do(ctx, http.MethodGet, documentPath(docID)+"/approvers", nil, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

// Approvals returns the per-approver decision records for a document.
func (c *Client) Approvals(ctx context.Context, docID uint64) ([]*approver.Record, error) {
	var records []*approver.Record
	if err := c.do(ctx, http.MethodGet, documentPath(docID)+"/records", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// History returns the document's event log, oldest first.
func (c *Client) History(ctx context.Context, docID uint64) ([]*event.Event, error) {
	var events []*event.Event
	if err := c.do(ctx, http.MethodGet, documentPath(docID)+"/events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func documentPath(docID uint64) string {
	return fmt.Sprintf("/v1/documents/%d", docID)
}
