package handlers

// ErrorResponse is the standard error response format for the API.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// AnalyzeRequest is the request body for POST /api/analyze.
type AnalyzeRequest struct {
	Situation string `json:"situation"`
	Category  string `json:"category,omitempty"`
}

// AnalyzeResponse is the response body for POST /api/analyze.
type AnalyzeResponse struct {
	Analysis     string `json:"analysis"`
	Category     string `json:"category"`
	Timestamp    string `json:"timestamp"` // RFC3339
	Provider     string `json:"provider"`
	SimilarCount int    `json:"similar_count"`
	Remaining    int    `json:"remaining"`
}

// SimilarResult is a single match in the GET /api/similar response.
// The embedding is never serialized.
type SimilarResult struct {
	ID        string  `json:"id"`
	Situation string  `json:"situation"`
	Category  string  `json:"category"`
	Analysis  string  `json:"analysis"`
	CreatedAt string  `json:"created_at"`
	Score     float64 `json:"score"`
}

// SimilarResponse is the response body for GET /api/similar.
type SimilarResponse struct {
	Query   string          `json:"query"`
	Results []SimilarResult `json:"results"`
	Count   int             `json:"count"`
}

// CategoryInfo describes one selectable category for GET /api/categories.
type CategoryInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HealthResponse is the response body for GET /api/health.
type HealthResponse struct {
	Status           string `json:"status"`
	Storage          string `json:"storage"`
	Situations       int    `json:"situations"`
	Provider         string `json:"provider"`
	KeyConfigured    bool   `json:"api_key_configured"`
	RetrievalEnabled bool   `json:"retrieval_enabled"`
}
