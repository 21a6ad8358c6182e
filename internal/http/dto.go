package http

// InsertRequest is the body of POST /insert.
type InsertRequest struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"vector"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Vector []float32 `json:"vector"`
	TopK   int       `json:"k"`
}

type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
	Latency string         `json:"latency"`
}

type SearchResult struct {
	ID       string  `json:"id"`
	Distance float32 `json:"distance"`
}
