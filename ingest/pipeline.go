package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/studyhall/ai"
	"github.com/poiesic/studyhall/conversation"
	"github.com/poiesic/studyhall/core"
	"github.com/poiesic/studyhall/resilience"
	"github.com/poiesic/studyhall/vectorindex"
)

// embedBatchSize is the number of chunks embedded per worker task.
const embedBatchSize = 16

// Pipeline orchestrates ingestion of a new source: extract text, chunk,
// embed, index, build the retrieval chain, and register the conversation.
// Validation happens before any external work so a failed ingestion never
// leaves a partial conversation behind.
type Pipeline struct {
	provider    ai.Provider
	registry    *conversation.Registry
	transcripts TranscriptFetcher
	splitter    Splitter
	pool        *ants.Pool
	policy      resilience.Policy
	callTimeout time.Duration
	topK        int
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithRetryPolicy overrides the retry schedule for external-service steps.
func WithRetryPolicy(policy resilience.Policy) Option {
	return func(p *Pipeline) error {
		p.policy = policy
		return nil
	}
}

// WithCallTimeout bounds each external call made during ingestion and chat.
// Default is 60s.
func WithCallTimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		if timeout > 0 {
			p.callTimeout = timeout
		}
		return nil
	}
}

// WithTranscriptFetcher sets the transcript source for video ingestion.
// Default is the YouTube timed-text client.
func WithTranscriptFetcher(fetcher TranscriptFetcher) Option {
	return func(p *Pipeline) error {
		if fetcher == nil {
			return ErrTranscriptFetcherRequired
		}
		p.transcripts = fetcher
		return nil
	}
}

// WithTopK sets how many chunks each conversation retrieves per question.
func WithTopK(k int) Option {
	return func(p *Pipeline) error {
		if k > 0 {
			p.topK = k
		}
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(provider ai.Provider, registry *conversation.Registry, opts ...Option) (*Pipeline, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		provider:    provider,
		registry:    registry,
		transcripts: NewTimedTextClient(),
		splitter:    NewSplitter(),
		pool:        pool,
		policy:      resilience.DefaultPolicy(),
		callTimeout: 60 * time.Second,
		topK:        4,
		logger:      slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestPDF ingests an uploaded PDF and returns the new conversation ID.
// The upload is staged in a temporary file that is removed on every exit
// path. Filename and content validation happen before any external work.
func (p *Pipeline) IngestPDF(ctx context.Context, upload io.Reader, filename string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return "", core.ErrUnsupportedFileType
	}

	tmp, err := os.CreateTemp("", "studyhall-*.pdf")
	if err != nil {
		return "", err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, upload); err != nil {
		return "", err
	}

	pages, err := extractPDFPages(ctx, tmp.Name())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}
	if len(pages) == 0 {
		return "", core.ErrEmptyContent
	}

	chunks, err := p.splitter.SplitPages(pages)
	if err != nil {
		return "", err
	}

	p.logger.Info("ingesting document", "filename", filename, "pages", len(pages), "chunks", len(chunks))
	return p.buildConversation(ctx, chunks)
}

// IngestVideo ingests the transcript of a video URL and returns the new
// conversation ID. Un-parseable URLs and missing transcripts are rejected
// before any index-building work begins.
func (p *Pipeline) IngestVideo(ctx context.Context, rawURL string) (string, error) {
	videoID, err := ParseVideoID(rawURL)
	if err != nil {
		return "", err
	}

	entries, err := p.transcripts.Fetch(ctx, videoID)
	if err != nil {
		return "", err
	}

	chunks, err := p.splitter.SplitText(JoinTranscript(entries))
	if err != nil {
		return "", err
	}

	p.logger.Info("ingesting video transcript", "videoID", videoID, "entries", len(entries), "chunks", len(chunks))
	return p.buildConversation(ctx, chunks)
}

// buildConversation runs the shared tail of both ingestion variants:
// embed, index, build the chain, register. Each external step retries per
// the policy; a final failure is tagged with a resilience.Kind.
func (p *Pipeline) buildConversation(ctx context.Context, chunks []core.DocumentChunk) (string, error) {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	index, err := vectorindex.New(p.provider.Embedder())
	if err != nil {
		return "", err
	}

	var vectors [][]float32
	err = p.policy.Do(ctx, "build vector index", func() error {
		var embedErr error
		vectors, embedErr = p.embedChunks(ctx, texts)
		return embedErr
	})
	if err != nil {
		return "", resilience.Classify("build vector index", err)
	}
	if err := index.Add(chunks, vectors); err != nil {
		return "", err
	}

	chain, err := resilience.DoValue(ctx, p.policy, "build retrieval chain", func() (*conversation.Chain, error) {
		return conversation.NewChain(p.provider.Generator(), index,
			conversation.WithTopK(p.topK),
			conversation.WithCallTimeout(p.callTimeout),
		)
	})
	if err != nil {
		return "", resilience.Classify("build retrieval chain", err)
	}

	return p.registry.Create(chain), nil
}

// embedChunks embeds texts in batches across the worker pool, preserving
// input order in the result.
func (p *Pipeline) embedChunks(ctx context.Context, texts []string) ([][]float32, error) {
	embedder := p.provider.Embedder()
	vectors := make([][]float32, len(texts))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batchStart, batchEnd := start, end

		wg.Add(1)
		task := func() {
			defer wg.Done()

			callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
			defer cancel()

			batch, err := embedder.EmbedTexts(callCtx, texts[batchStart:batchEnd])
			if err == nil && len(batch) != batchEnd-batchStart {
				err = ErrEmbeddingMismatch
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			copy(vectors[batchStart:batchEnd], batch)
		}

		if submitErr := p.pool.Submit(task); submitErr != nil {
			// Pool released or overloaded; run inline rather than dropping work.
			task()
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
