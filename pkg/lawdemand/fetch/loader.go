package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/lawdemand/pkg/lawdemand/internalerr"
	"github.com/cognicore/lawdemand/pkg/lawdemand/raw"
)

// Document names one of the two raw corpora.
type Document string

const (
	DocumentSocial Document = "social"
	DocumentNews   Document = "news"
)

// LoadError is a failed load of one document. It matches
// internalerr.ErrFetch or internalerr.ErrDecode through errors.Is.
type LoadError struct {
	Document Document
	Message  string
	At       time.Time
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s document: %s: %v", e.Document, e.Message, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Options configures a Loader.
type Options struct {
	// Attempts per document. Default: 3
	Attempts int
	// Backoff base; attempt n waits n*Backoff before the next try.
	Backoff time.Duration
	Logger  *zap.Logger
	// Now stamps LoadError.At. Default: time.Now
	Now func() time.Time
}

// Loader fetches and decodes raw documents with bounded retries.
type Loader struct {
	src      Source
	attempts int
	backoff  time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewLoader wraps src. A nil src reads URLs and files.
func NewLoader(src Source, opts Options) *Loader {
	if src == nil {
		src = AutoSource{}
	}
	if opts.Attempts < 1 {
		opts.Attempts = 3
	}
	if opts.Backoff < 0 {
		opts.Backoff = 0
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Loader{
		src:      src,
		attempts: opts.Attempts,
		backoff:  opts.Backoff,
		log:      opts.Logger,
		now:      opts.Now,
	}
}

// Fetch returns the bytes of one document, retrying transient failures with
// linear backoff.
func (l *Loader) Fetch(ctx context.Context, doc Document, location string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= l.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, l.fail(doc, "cancelled", err)
		}
		data, err := l.src.Get(ctx, location)
		if err == nil {
			if attempt > 1 {
				l.log.Info("document fetched after retry",
					zap.String("document", string(doc)),
					zap.Int("attempt", attempt))
			}
			return data, nil
		}
		lastErr = err
		if IsPermanent(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
		if attempt == l.attempts {
			break
		}

		wait := time.Duration(attempt) * l.backoff
		l.log.Warn("document fetch failed, retrying",
			zap.String("document", string(doc)),
			zap.String("location", location),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, l.fail(doc, "cancelled", ctx.Err())
		}
	}
	return nil, l.fail(doc, "fetch "+location, lastErr)
}

func (l *Loader) fail(doc Document, msg string, err error) *LoadError {
	return &LoadError{
		Document: doc,
		Message:  msg,
		At:       l.now(),
		Err:      fmt.Errorf("%w: %w", internalerr.ErrFetch, err),
	}
}

// Result is the decoded pair of documents.
type Result struct {
	Social      raw.Document
	News        raw.Document
	SocialBytes int
	NewsBytes   int
}

// Load fetches both documents in parallel and decodes them. An empty
// location leaves that document nil. The first failure cancels the other
// fetch.
func (l *Loader) Load(ctx context.Context, social, news string) (Result, error) {
	var res Result
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, n, err := l.load(ctx, DocumentSocial, social)
		res.Social, res.SocialBytes = doc, n
		return err
	})
	g.Go(func() error {
		doc, n, err := l.load(ctx, DocumentNews, news)
		res.News, res.NewsBytes = doc, n
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}

func (l *Loader) load(ctx context.Context, doc Document, location string) (raw.Document, int, error) {
	if location == "" {
		l.log.Warn("no location configured, document left empty", zap.String("document", string(doc)))
		return nil, 0, nil
	}
	data, err := l.Fetch(ctx, doc, location)
	if err != nil {
		return nil, 0, err
	}
	parsed, err := raw.Parse(data)
	if err != nil {
		// raw.Parse already wraps internalerr.ErrDecode
		return nil, 0, &LoadError{Document: doc, Message: "decode", At: l.now(), Err: err}
	}
	l.log.Debug("document loaded",
		zap.String("document", string(doc)),
		zap.Int("bytes", len(data)),
		zap.Int("domains", len(parsed)))
	return parsed, len(data), nil
}
