package domain

const unknownDescription = "Unknown"

// MatchMode defines how evidence retrieval combines retrieval methods.
type MatchMode string

// Available match modes.
const (
	// MatchModeLexical uses only lexical/regex retrieval and scoring.
	// This path must work standalone; it is the correctness baseline.
	MatchModeLexical MatchMode = "lexical"

	// MatchModeHybrid blends normalised vector similarity into the
	// lexical score (60% vector / 40% lexical). Requires an embedding
	// provider and a vector-capable store or index.
	MatchModeHybrid MatchMode = "hybrid"
)

// IsValid returns true if the match mode is recognised.
func (m MatchMode) IsValid() bool {
	switch m {
	case MatchModeLexical, MatchModeHybrid:
		return true
	default:
		return false
	}
}

// RequiresEmbedding returns true if this mode needs an embedding provider.
func (m MatchMode) RequiresEmbedding() bool {
	return m == MatchModeHybrid
}

// String returns the string representation.
func (m MatchMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m MatchMode) Description() string {
	switch m {
	case MatchModeLexical:
		return "Lexical (regex + metadata scoring)"
	case MatchModeHybrid:
		return "Hybrid (lexical + semantic blend)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies an AI service provider for embeddings or completion.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is the OpenAI cloud API (or an Azure-compatible
	// endpoint configured through the base URL).
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// StoreBackend identifies the persistence backend for certificates/chunks.
type StoreBackend string

// Available store backends.
const (
	// StoreBackendSQLite is the local single-instance store.
	StoreBackendSQLite StoreBackend = "sqlite"

	// StoreBackendMongo is the shared multi-tenant store.
	StoreBackendMongo StoreBackend = "mongo"
)

// IsValid returns true if the store backend is recognised.
func (b StoreBackend) IsValid() bool {
	return b == StoreBackendSQLite || b == StoreBackendMongo
}

// ProviderSettings configures one AI provider endpoint.
type ProviderSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string
}

// Settings holds the application configuration.
type Settings struct {
	// TenantID is the company all store operations are scoped to.
	TenantID string

	// CertsRoot is the certificate tree root:
	// <CertsRoot>/<tenant>/<manager>/<file>.
	CertsRoot string

	// DataDir is where local databases and indexes live.
	DataDir string

	// Backend selects the certificate/chunk store.
	Backend StoreBackend

	// MongoURI is the connection string when Backend is mongo.
	MongoURI string

	// Mode selects lexical-only or hybrid matching.
	Mode MatchMode

	// Embedding configures the optional embedding provider.
	Embedding ProviderSettings

	// LLM configures the optional completion provider.
	LLM ProviderSettings
}
