package domain

// Metadata keys attached to retrieved documents. The vector index
// guarantees MetadataScore when metadata inclusion is requested;
// MetadataSource comes from the ingestion pipeline.
const (
	MetadataSource = "source"
	MetadataScore  = "score"
)

// Document is one retrieved context passage. Created by the vector
// index per search call; immutable for the rest of the request.
type Document struct {
	Content  string
	Metadata map[string]any
}

// DefaultRole is assumed when a caller supplies no role.
const DefaultRole = "researcher"

// UserContext carries caller identity hints. It has no authentication
// meaning and is never persisted; its only effect is the role prefix
// applied to the question before embedding and prompting.
type UserContext struct {
	Role      string
	UserID    string
	SessionID string
}
