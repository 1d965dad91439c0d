package fetch

import (
	"context"
	"log"

	"github.com/jonathan/resume-rewrite/internal/cache"
)

// Posting is the text of a job posting fetched from a URL
type Posting struct {
	URL      string
	Platform Platform
	Text     string
	Rendered bool // true when the text came from the headless browser
}

// PostingFetcher fetches job postings and keeps recent ones in memory.
type PostingFetcher struct {
	options *Options
	render  RenderFunc
	cache   *cache.Cache[*Posting]
	logger  *log.Logger
}

// PostingFetcherConfig configures a PostingFetcher. A nil Render disables the browser fallback.
type PostingFetcherConfig struct {
	Options *Options
	Render  RenderFunc
	Cache   cache.Config
	Logger  *log.Logger
}

// NewPostingFetcher creates a PostingFetcher
func NewPostingFetcher(cfg PostingFetcherConfig) *PostingFetcher {
	if cfg.Options == nil {
		cfg.Options = DefaultOptions()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &PostingFetcher{
		options: cfg.Options,
		render:  cfg.Render,
		cache:   cache.New[*Posting](cfg.Cache),
		logger:  cfg.Logger,
	}
}

// Fetch returns the job posting text at urlStr, from memory when fresh.
func (f *PostingFetcher) Fetch(ctx context.Context, urlStr string) (*Posting, error) {
	posting, hit, err := f.cache.Do(ctx, urlStr, func(ctx context.Context) (*Posting, error) {
		return f.fetch(ctx, urlStr)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		f.logger.Printf("[fetch] cache hit for %s", urlStr)
	}
	return posting, nil
}

// Invalidate forces the next Fetch of urlStr to go to the network
func (f *PostingFetcher) Invalidate(urlStr string) {
	f.cache.Delete(urlStr)
}

func (f *PostingFetcher) fetch(ctx context.Context, urlStr string) (*Posting, error) {
	platform := DetectPlatform(urlStr)
	content := PlatformContentSelectors(platform)
	noise := PlatformNoiseSelectors(platform)

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}

	text, err := ExtractMainText(result.HTML, content, noise...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}
	posting := &Posting{URL: urlStr, Platform: platform, Text: text}

	if f.render != nil && ShouldUseBrowser(text) {
		f.logger.Printf("[fetch] %s yielded %d chars, falling back to browser", urlStr, len(text))
		html, renderErr := f.render(ctx, urlStr)
		if renderErr != nil {
			f.logger.Printf("[fetch] browser fallback failed for %s: %v", urlStr, renderErr)
		} else if rendered, extractErr := ExtractMainText(html, content, noise...); extractErr == nil && len(rendered) > len(text) {
			posting.Text = rendered
			posting.Rendered = true
		}
	}

	if posting.Text == "" {
		return nil, &EmptyContentError{URL: urlStr}
	}
	return posting, nil
}
