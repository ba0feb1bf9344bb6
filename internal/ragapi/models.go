package ragapi

// Request models
type QueryRequest struct {
	Question      string        `json:"question"`
	TopK          int           `json:"topK"`
	Filters       *QueryFilters `json:"filters,omitempty"`
	ReturnSources bool          `json:"returnSources"`
}

// QueryFilters narrows retrieval to documents matching the given tags or IDs.
// A nil slice means "no filter"; the backend treats an explicit empty list
// differently, so empty selections must be omitted entirely.
type QueryFilters struct {
	Tags   []string `json:"tags,omitempty"`
	DocIDs []string `json:"docIds,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DocumentUpdateRequest struct {
	Description string   `json:"descripcion,omitempty"`
	Roles       []string `json:"roles_permitidos,omitempty"`
	Status      string   `json:"estatus,omitempty"`
}

// Response models
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
	User        *User  `json:"user,omitempty"`
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// QueryResponse is the normalized form of the synchronous query payload.
// The raw wire shape is polymorphic; see normalize.go.
type QueryResponse struct {
	Answer     string
	Sources    []SourceCitation
	Confidence float64
}

// SourceCitation is one retrieved fragment supporting an answer. Score is in
// [0,1]; HasScore is false when the backend supplied none at any level.
type SourceCitation struct {
	Title    string
	Snippet  string
	Score    float64
	HasScore bool
}

// Document is the normalized catalog entry. The backend mixes English and
// Spanish field names depending on which service answered; see normalize.go.
type Document struct {
	ID          string
	Title       string
	Tags        []string
	Description string
	Status      string
	Roles       []string
	CreatedAt   string
	CreatedBy   string
}
