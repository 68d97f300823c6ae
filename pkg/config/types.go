package config

// Config represents the persistent studykit configuration stored as
// config.toml. The TOML layout uses sections for logical grouping.
type Config struct {
	Version   int             `toml:"version"`
	Storage   StorageConfig   `toml:"storage"`
	API       APIConfig       `toml:"api"`
	Embedding EmbeddingConfig `toml:"embedding"`
	LLM       LLMConfig       `toml:"llm"`
	Retrieval RetrievalConfig `toml:"retrieval"`
}

// StorageConfig holds the on-disk locations of source documents and the
// persisted index artifacts.
type StorageConfig struct {
	DataDir  string `toml:"data_dir,omitempty"`
	IndexDir string `toml:"index_dir,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `toml:"provider,omitempty"`
	Target     string `toml:"target,omitempty"`
	Model      string `toml:"model,omitempty"`
	Dimensions int    `toml:"dimensions,omitempty"`
}

// LLMConfig holds completion provider settings. APIKey may be left empty and
// supplied through the provider's environment variable instead.
type LLMConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Model    string `toml:"model,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`
}

// RetrievalConfig holds chunking and search settings.
type RetrievalConfig struct {
	TopK         int `toml:"top_k,omitempty"`
	ChunkSize    int `toml:"chunk_size,omitempty"`
	ChunkOverlap int `toml:"chunk_overlap,omitempty"`
}
