package dto

// QueryRequest input for /v1/query.
type QueryRequest struct {
	Question string `json:"question" validate:"required,max=2000"`
	TopK     int    `json:"top_k" validate:"omitempty,min=1,max=20"`
}

// SourceChunk one retrieved chunk cited in the answer.
type SourceChunk struct {
	DocumentID    string  `json:"document_id"`
	DocumentTitle string  `json:"document_title"`
	Seq           int     `json:"seq"`
	Text          string  `json:"text"`
	Score         float64 `json:"score"`
}

// QueryResponse output of the adaptive retrieval pipeline. Strategy names
// which stage of the fallback chain produced the answer: vector, hybrid,
// fulltext or llm_only. Grounded is false for llm_only answers.
type QueryResponse struct {
	Answer   string        `json:"answer"`
	Sources  []SourceChunk `json:"sources"`
	Strategy string        `json:"strategy"`
	Grounded bool          `json:"grounded"`
	Cached   bool          `json:"cached"`
}
