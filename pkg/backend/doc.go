// Package backend is the REST client for the maintenance backend.
//
// The backend owns two resources: live room records for a floor and the
// maintenance requests filed against a room. [Client] reads both and submits
// new requests:
//
//	c, err := backend.New(backend.Options{BaseURL: "http://localhost:8000/api"})
//	rooms, err := c.FetchRooms(ctx, "DFA BUILDING", "2ND FLOOR")
//	req, err := c.SubmitRequest(ctx, backend.NewRequest{Room: "A4", Title: "Broken fan"})
//
// Reads are retried on network failures and 5xx responses. Submissions are
// never retried: a POST that timed out may already have been stored, and a
// duplicate request is worse than a surfaced error.
//
// List endpoints may answer with a bare JSON array or with an object whose
// "results" field holds the array, as paginated REST frameworks do. Elements
// that cannot be decoded are skipped.
package backend
