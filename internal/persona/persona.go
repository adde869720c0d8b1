// Package persona loads the static biography resources once at startup and
// renders the system prompt that frames the model as a digital twin.
package persona

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Education is a single education entry in the facts record.
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Facts is the structured biography record driving the system prompt.
type Facts struct {
	FullName        string      `json:"full_name"`
	Name            string      `json:"name"`
	CurrentRole     string      `json:"current_role"`
	Location        string      `json:"location"`
	Email           string      `json:"email"`
	LinkedIn        string      `json:"linkedin"`
	Specialties     []string    `json:"specialties"`
	YearsExperience int         `json:"years_experience"`
	Education       []Education `json:"education"`
}

// Builder holds the loaded persona resources and renders the system prompt.
// All fields are written once during Load and read-only afterwards, so a
// single Builder is safe for concurrent use by simultaneous requests.
type Builder struct {
	mu       sync.RWMutex
	facts    *Facts
	summary  string
	style    string
	meText   string
	linkedin string

	// now is injectable for deterministic prompt tests.
	now func() time.Time
}

// NewBuilder creates an empty Builder. Call Load before serving traffic;
// Build falls back to a generic assistant instruction until resources exist.
func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// Load reads the persona resource files from dataDir. The five reads are
// independent and order-insensitive, so they fan out concurrently. Each
// missing or unreadable file degrades that one resource; Load itself never
// fails, keeping the system servable with whatever is available.
func (b *Builder) Load(ctx context.Context, dataDir string, logger *slog.Logger) {
	var (
		factsData []byte
		summary   string
		style     string
		meText    string
		linkedin  string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		factsData = readResource(ctx, filepath.Join(dataDir, "facts.json"), logger)
		return nil
	})
	g.Go(func() error {
		summary = string(readResource(ctx, filepath.Join(dataDir, "summary.txt"), logger))
		return nil
	})
	g.Go(func() error {
		style = string(readResource(ctx, filepath.Join(dataDir, "style.txt"), logger))
		return nil
	})
	g.Go(func() error {
		meText = string(readResource(ctx, filepath.Join(dataDir, "me.txt"), logger))
		return nil
	})
	g.Go(func() error {
		linkedin = string(readResource(ctx, filepath.Join(dataDir, "linkedin.txt"), logger))
		return nil
	})
	_ = g.Wait()

	var facts *Facts
	if len(factsData) > 0 {
		parsed := &Facts{}
		if err := json.Unmarshal(factsData, parsed); err != nil {
			logger.Warn("failed to parse persona facts", "error", err)
		} else {
			facts = parsed
		}
	}
	if linkedin == "" {
		linkedin = "LinkedIn profile not available"
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.facts = facts
	b.summary = summary
	b.style = style
	b.meText = meText
	b.linkedin = linkedin

	if facts == nil {
		logger.Warn("persona facts unavailable, using fallback prompt")
	} else {
		logger.Info("persona resources loaded", "name", facts.Name)
	}
}

// SetFacts replaces the loaded resources. Intended for tests and for embedding
// the builder with a mock persona.
func (b *Builder) SetFacts(facts *Facts, summary, style, meText, linkedin string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.facts = facts
	b.summary = summary
	b.style = style
	b.meText = meText
	b.linkedin = linkedin
}

func readResource(ctx context.Context, path string, logger *slog.Logger) []byte {
	if ctx.Err() != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("failed to read persona resource", "path", path, "error", err)
		}
		return nil
	}
	return data
}
