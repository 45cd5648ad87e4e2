package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cleared-dev/standardizer/internal/buildinfo"
	"github.com/cleared-dev/standardizer/internal/catalog"
	"github.com/cleared-dev/standardizer/internal/model"
)

const (
	DefaultAttempts  = 3
	DefaultBaseDelay = 500 * time.Millisecond
	DefaultTimeout   = 5 * time.Second
)

// Request is the body posted to the classification endpoint.
type Request struct {
	AccountName string                 `json:"account_name"`
	Categories  []model.Classification `json:"categories"`
}

// ErrIncompleteResponse means the endpoint answered without all four levels.
var ErrIncompleteResponse = errors.New("incomplete classification response")

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("classification endpoint returned %d", e.StatusCode)
	}
	return fmt.Sprintf("classification endpoint returned %d: %s", e.StatusCode, e.Body)
}

// Remote calls an HTTP classification endpoint with bounded retries.
type Remote struct {
	Endpoint  string
	Client    *http.Client
	Attempts  int
	BaseDelay time.Duration
	Timeout   time.Duration
	Logger    *log.Logger
}

// NewRemote returns a client with the default retry policy.
func NewRemote(endpoint string) *Remote {
	return &Remote{
		Endpoint:  endpoint,
		Client:    http.DefaultClient,
		Attempts:  DefaultAttempts,
		BaseDelay: DefaultBaseDelay,
		Timeout:   DefaultTimeout,
	}
}

// Classify posts the account name and catalog. Attempt n (n >= 2) waits
// BaseDelay * 2^(n-2) first. It returns the classification and the number of
// attempts made; the error is the last attempt's failure.
func (r *Remote) Classify(ctx context.Context, name string, cat *catalog.Catalog) (model.Classification, int, error) {
	body, err := json.Marshal(Request{AccountName: name, Categories: nonNil(cat.Entries())})
	if err != nil {
		return model.Classification{}, 0, fmt.Errorf("encoding request: %w", err)
	}

	attempts := max(r.Attempts, 1)
	delay := r.BaseDelay
	var lastErr error
	for n := 1; n <= attempts; n++ {
		if n > 1 {
			select {
			case <-ctx.Done():
				return model.Classification{}, n - 1, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		c, err := r.attempt(ctx, body)
		if err == nil {
			return c, n, nil
		}
		lastErr = err
		r.logger().Warn("classification attempt failed", "account", name, "attempt", n, "error", err)
		if ctx.Err() != nil {
			return model.Classification{}, n, ctx.Err()
		}
	}
	return model.Classification{}, attempts, lastErr
}

func (r *Remote) attempt(ctx context.Context, body []byte) (model.Classification, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Classification{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", buildinfo.UserAgent())

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return model.Classification{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return model.Classification{}, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Classification{}, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return decodeResponse(data)
}

func decodeResponse(data []byte) (model.Classification, error) {
	var raw struct {
		AccountType *string `json:"accountType"`
		Primary     *string `json:"primary"`
		Secondary   *string `json:"secondary"`
		Tertiary    *string `json:"tertiary"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Classification{}, fmt.Errorf("decoding response: %w", err)
	}
	var missing []string
	for _, f := range []struct {
		name string
		v    *string
	}{
		{"accountType", raw.AccountType},
		{"primary", raw.Primary},
		{"secondary", raw.Secondary},
		{"tertiary", raw.Tertiary},
	} {
		if f.v == nil || strings.TrimSpace(*f.v) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return model.Classification{}, fmt.Errorf("%w: missing %s", ErrIncompleteResponse, strings.Join(missing, ", "))
	}

	at, ok := model.ParseAccountType(*raw.AccountType)
	if !ok {
		return model.Classification{}, fmt.Errorf("%w: unknown account type %q", ErrIncompleteResponse, *raw.AccountType)
	}
	return model.Classification{
		AccountType: at,
		Primary:     strings.TrimSpace(*raw.Primary),
		Secondary:   strings.TrimSpace(*raw.Secondary),
		Tertiary:    strings.TrimSpace(*raw.Tertiary),
	}, nil
}

func (r *Remote) logger() *log.Logger {
	if r.Logger == nil {
		return discard
	}
	return r.Logger
}

func nonNil(entries []model.Classification) []model.Classification {
	if entries == nil {
		return []model.Classification{}
	}
	return entries
}
