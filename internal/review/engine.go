package review

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shuguang-lv/ai-code-review/internal/cache"
	"github.com/shuguang-lv/ai-code-review/internal/config"
	"github.com/shuguang-lv/ai-code-review/internal/diff"
	"github.com/shuguang-lv/ai-code-review/internal/gitctx"
	"github.com/shuguang-lv/ai-code-review/internal/graph"
	"github.com/shuguang-lv/ai-code-review/internal/providers"
	"github.com/shuguang-lv/ai-code-review/internal/redact"
	"github.com/shuguang-lv/ai-code-review/internal/verify"
)

// Version is the tool version stamped into reports.
const Version = "0.1.0"

// maxConcurrency bounds simultaneous provider calls.
const maxConcurrency = 4

// Run reviews a collected diff end to end and returns the report.
func Run(ctx context.Context, dr gitctx.DiffResult, cfg config.Config) (*Report, error) {
	gen, err := providers.New(cfg.Provider, cfg.Model)
	if err != nil {
		return nil, err
	}
	return RunWithProvider(ctx, dr, cfg, gen)
}

// RunWithProvider is Run with an injected provider, used by tests and by
// callers that construct their own client.
func RunWithProvider(ctx context.Context, dr gitctx.DiffResult, cfg config.Config, gen providers.Generator) (*Report, error) {
	start := time.Now()

	diffText := dr.Diff
	if cfg.Privacy.RedactSecrets {
		diffText = redact.Secrets(diffText)
	}

	pd := diff.Parse(diffText)
	if len(pd.Files) == 0 {
		return nil, fmt.Errorf("no reviewable changes in diff")
	}

	graphStart := time.Now()
	builder := buildGraph(dr.Repo.Root)
	graphMs := time.Since(graphStart).Milliseconds()

	chunks, err := diff.Chunk(pd, cfg.TokenBudget)
	if err != nil {
		return nil, err
	}

	store, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}

	llmStart := time.Now()
	comments, err := generateComments(ctx, gen, cfg, pd, chunks, builder, store)
	if err != nil {
		return nil, err
	}
	llmMs := time.Since(llmStart).Milliseconds()

	res, err := verifyComments(dr.Repo.Root, cfg, pd, builder, comments)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		Tool:    "aicr",
		Version: Version,
		RunID:   newRunID(),
		Repo: RepoInfo{
			Root:   dr.Repo.Root,
			Head:   dr.Repo.Head,
			Branch: dr.Repo.Branch,
		},
		Inputs:       InputInfo{Mode: dr.Mode, Range: dr.Range},
		Summary:      ComputeSummary(res),
		Verification: res,
		Timing: Timing{
			GraphMs: graphMs,
			LLMMs:   llmMs,
			TotalMs: time.Since(start).Milliseconds(),
		},
	}
	return rep, nil
}

// buildGraph constructs the code graph for the repository root. Graph
// failures degrade the review rather than abort it, so errors map to a nil
// builder.
func buildGraph(root string) *graph.Builder {
	if root == "" {
		return nil
	}
	b, err := graph.NewBuilder(root)
	if err != nil {
		return nil
	}
	if _, err := b.Build(); err != nil {
		return nil
	}
	return b
}

// generateComments fans chunk prompts out to the provider and merges the
// parsed comments back in chunk order.
func generateComments(ctx context.Context, gen providers.Generator, cfg config.Config, pd *diff.ParsedDiff, chunks []diff.DiffChunk, builder *graph.Builder, store *cache.Cache) ([]verify.Comment, error) {
	results := make([][]verify.Comment, len(chunks))
	errs := make([]error, len(chunks))

	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup
	for i, c := range chunks {
		wg.Add(1)
		go func(i int, c diff.DiffChunk) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], errs[i] = reviewChunk(ctx, gen, cfg, pd, c, builder, store)
		}(i, c)
	}
	wg.Wait()

	var comments []verify.Comment
	for i := range chunks {
		if errs[i] != nil {
			return nil, fmt.Errorf("chunk %d (%s): %w", i, chunks[i].Path, errs[i])
		}
		comments = append(comments, results[i]...)
	}
	return comments, nil
}

func reviewChunk(ctx context.Context, gen providers.Generator, cfg config.Config, pd *diff.ParsedDiff, c diff.DiffChunk, builder *graph.Builder, store *cache.Cache) ([]verify.Comment, error) {
	cc := ChunkContext{}
	if builder != nil {
		cc.Definitions = builder.RelevantDefinitions(c.Path, cfg.CharBudget)
		cc.Meta = builder.Meta(c.Path)
		cc.Hotspots = builder.Hotspots(cfg.MaxHotspots)
	}
	prompt := BuildUserPrompt(diff.FormatChunk(pd, c), cc, cfg.MaxComments)

	key := cache.Key(gen.Name(), cfg.Model, prompt)
	if cached, ok := store.Get(key); ok {
		if comments, err := parseComments(cached); err == nil {
			return comments, nil
		}
		// A cache entry that no longer parses is regenerated.
	}

	resp, err := gen.Generate(ctx, providers.GenerateRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   prompt,
		MaxTokens:    4096,
		Temperature:  0.2,
	})
	if err != nil {
		return nil, err
	}

	comments, err := parseComments(resp.Content)
	if err != nil {
		comments, err = repairComments(ctx, gen, resp.Content)
		if err != nil {
			return nil, err
		}
	}

	// Best effort; a failed write only costs a later regeneration.
	_ = store.Put(key, resp.Content)
	return comments, nil
}

// parseComments decodes a provider response into comments, tolerating
// markdown code fences around the JSON.
func parseComments(content string) ([]verify.Comment, error) {
	text := stripFences(strings.TrimSpace(content))

	// Some models wrap the array in prose. Slice to the outermost array.
	if i := strings.IndexByte(text, '['); i >= 0 {
		if j := strings.LastIndexByte(text, ']'); j > i {
			text = text[i : j+1]
		}
	}

	var comments []verify.Comment
	if err := json.Unmarshal([]byte(text), &comments); err != nil {
		return nil, fmt.Errorf("parse comments: %w", err)
	}
	return comments, nil
}

// repairComments asks the provider once to reformat an unparseable response.
func repairComments(ctx context.Context, gen providers.Generator, broken string) ([]verify.Comment, error) {
	resp, err := gen.Generate(ctx, providers.GenerateRequest{
		SystemPrompt: systemPrompt,
		UserPrompt: "The following response was not valid JSON. Reformat it as a valid JSON array of comment objects, preserving the content. Respond with ONLY the JSON array.\n\n" +
			broken,
		MaxTokens:   4096,
		Temperature: 0,
	})
	if err != nil {
		return nil, err
	}
	return parseComments(resp.Content)
}

func stripFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func verifyComments(root string, cfg config.Config, pd *diff.ParsedDiff, builder *graph.Builder, comments []verify.Comment) (verify.Result, error) {
	eng, err := verify.NewEngine(root, verify.Options{
		Fuzzy:         cfg.Fuzzy,
		Enhance:       cfg.Enhance,
		MinConfidence: cfg.MinConfidence,
		MaxMatches:    cfg.MaxMatches,
	})
	if err != nil {
		return verify.Result{}, err
	}
	if builder != nil {
		eng.SetSymbols(builder.SymbolNames())
	}
	eng.Preload(pd.ChangedPaths())
	return eng.Verify(comments), nil
}

func newRunID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
