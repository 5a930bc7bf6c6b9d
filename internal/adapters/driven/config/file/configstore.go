package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
)

// Config is the full application configuration, one section per
// subsystem. TOML keys mirror the struct layout.
type Config struct {
	Ollama     OllamaConfig     `toml:"ollama"`
	Chroma     ChromaConfig     `toml:"chroma"`
	Fragmenter FragmenterConfig `toml:"fragmenter"`
	Retrieval  RetrievalConfig  `toml:"retrieval"`
	Classifier ClassifierConfig `toml:"classifier"`
	Storage    StorageConfig    `toml:"storage"`
	Watch      WatchConfig      `toml:"watch"`
}

// OllamaConfig configures the embedding and generation backends.
type OllamaConfig struct {
	BaseURL        string `toml:"base_url"`
	LLMModel       string `toml:"llm_model"`
	EmbeddingModel string `toml:"embedding_model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ChromaConfig configures the vector store.
type ChromaConfig struct {
	BaseURL    string `toml:"base_url"`
	Collection string `toml:"collection"`
}

// FragmenterConfig configures text splitting.
type FragmenterConfig struct {
	ChunkSize int `toml:"chunk_size"`
	Overlap   int `toml:"overlap"`
}

// RetrievalConfig configures similarity search.
type RetrievalConfig struct {
	MaxResults          int     `toml:"max_results"`
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

// ClassifierConfig configures topic classification.
type ClassifierConfig struct {
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
}

// StorageConfig configures local persistence.
type StorageConfig struct {
	DataDir string `toml:"data_dir"`
}

// WatchConfig configures the drop-directory watcher.
type WatchConfig struct {
	Dir string `toml:"dir"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		Ollama: OllamaConfig{
			BaseURL:        "http://localhost:11434",
			LLMModel:       "llama3.2:3b",
			EmbeddingModel: "nomic-embed-text",
			TimeoutSeconds: 90,
		},
		Chroma: ChromaConfig{
			BaseURL:    "http://localhost:8000",
			Collection: "processed_documents",
		},
		Fragmenter: FragmenterConfig{
			ChunkSize: 1000,
			Overlap:   200,
		},
		Retrieval: RetrievalConfig{
			MaxResults:          domain.DefaultMaxResults,
			SimilarityThreshold: domain.DefaultSimilarityThreshold,
		},
		Classifier: ClassifierConfig{
			ConfidenceThreshold: 0.6,
		},
	}
}

// ConfigStore reads and writes the TOML configuration file.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	config   Config
}

// NewConfigStore creates a TOML-based config store.
// If configDir is empty, defaults to ~/.copiloto.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".copiloto")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		config:   Defaults(),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Config returns the current configuration.
func (s *ConfigStore) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Load reads the configuration file. Missing file keeps defaults;
// fields absent from the file keep their default values.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.config = Defaults()
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	cfg := Defaults()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	s.config = cfg
	return nil
}

// Save persists the current configuration to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(s.config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Update applies fn to the configuration and persists the result.
func (s *ConfigStore) Update(fn func(*Config)) error {
	s.mu.Lock()
	fn(&s.config)
	data, err := toml.Marshal(s.config)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
