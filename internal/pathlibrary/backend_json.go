package pathlibrary

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"unified-thinking/internal/types"
)

// jsonDocument is the on-disk shape of the JSON backend: a single document
// with a metadata header and a path_id-keyed map, per §6's persisted state
// layout.
type jsonDocument struct {
	Metadata jsonDocumentMetadata               `json:"metadata"`
	Paths    map[string]*jsonPathRecord          `json:"paths"`
}

type jsonDocumentMetadata struct {
	Version    int       `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	TotalPaths int       `json:"total_paths"`
}

type jsonPathRecord struct {
	PathType           string              `json:"path_type"`
	Description        string              `json:"description"`
	PromptTemplate     string              `json:"prompt_template"`
	StrategyID         string              `json:"strategy_id"`
	InstanceID         string              `json:"instance_id,omitempty"`
	Metadata           types.PathMetadata  `json:"metadata"`
	IsLearned          bool                `json:"is_learned"`
	LearningSource     string              `json:"learning_source,omitempty"`
	EffectivenessScore float64             `json:"effectiveness_score"`
}

// jsonBackend persists the library as a single JSON document, rewritten
// atomically (write-to-temp-then-rename) on every Save.
type jsonBackend struct {
	path string
}

func newJSONBackend(path string) *jsonBackend {
	return &jsonBackend{path: path}
}

// Load reads the document from disk. A missing or empty file yields an
// empty library rather than an error, per §4.1's storage invariants.
func (b *jsonBackend) Load() (map[string]*types.ReasoningPath, error) {
	out := make(map[string]*types.ReasoningPath)

	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("pathlibrary: reading %s: %w", b.path, err)
	}
	if len(data) == 0 {
		return out, nil
	}

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("pathlibrary: parsing %s: %w", b.path, err)
	}

	for id, rec := range doc.Paths {
		if rec == nil {
			log.Printf("[WARN] pathlibrary: skipping malformed entry %s", id)
			continue
		}
		out[id] = &types.ReasoningPath{
			PathID:         id,
			PathType:       rec.PathType,
			Description:    rec.Description,
			PromptTemplate: rec.PromptTemplate,
			StrategyID:     rec.StrategyID,
			InstanceID:     rec.InstanceID,
			Metadata:       rec.Metadata,
		}
	}

	return out, nil
}

// Save rewrites the document atomically.
func (b *jsonBackend) Save(paths map[string]*types.ReasoningPath) error {
	doc := jsonDocument{
		Metadata: jsonDocumentMetadata{
			Version:    1,
			UpdatedAt:  time.Now(),
			TotalPaths: len(paths),
		},
		Paths: make(map[string]*jsonPathRecord, len(paths)),
	}

	for id, p := range paths {
		doc.Paths[id] = &jsonPathRecord{
			PathType:           p.PathType,
			Description:        p.Description,
			PromptTemplate:     p.PromptTemplate,
			StrategyID:         p.StrategyID,
			InstanceID:         p.InstanceID,
			Metadata:           p.Metadata,
			IsLearned:          p.Metadata.IsLearned,
			LearningSource:     p.Metadata.LearningSource,
			EffectivenessScore: p.Metadata.EffectivenessScore,
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("pathlibrary: encoding document: %w", err)
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("pathlibrary: creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".reasoning_paths-*.tmp")
	if err != nil {
		return fmt.Errorf("pathlibrary: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("pathlibrary: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("pathlibrary: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, b.path); err != nil {
		return fmt.Errorf("pathlibrary: renaming into place: %w", err)
	}

	return nil
}

func (b *jsonBackend) Close() error { return nil }
