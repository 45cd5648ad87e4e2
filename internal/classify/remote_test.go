package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/standardizer/internal/buildinfo"
	"github.com/cleared-dev/standardizer/internal/catalog"
	"github.com/cleared-dev/standardizer/internal/model"
)

const rentJSON = `{"accountType":"Cost/Expense","primary":"Operating Expenses","secondary":"Occupancy","tertiary":"Rent Expense"}`

var rent = model.Classification{
	AccountType: model.AccountTypeExpense,
	Primary:     "Operating Expenses",
	Secondary:   "Occupancy",
	Tertiary:    "Rent Expense",
}

func testRemote(url string) *Remote {
	r := NewRemote(url)
	r.BaseDelay = 20 * time.Millisecond
	r.Timeout = time.Second
	return r
}

func TestRemoteSendsRequest(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, buildinfo.UserAgent(), r.Header.Get("User-Agent"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(rentJSON))
	}))
	defer srv.Close()

	cat := catalog.New()
	cat.Add(rent)

	cl, attempts, err := testRemote(srv.URL).Classify(context.Background(), "Office Rent", cat)
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, rent, cl)
	assert.Equal(t, "Office Rent", got.AccountName)
	assert.Equal(t, []model.Classification{rent}, got.Categories)
}

func TestRemoteRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(rentJSON))
	}))
	defer srv.Close()

	r := testRemote(srv.URL)
	start := time.Now()
	cl, attempts, err := r.Classify(context.Background(), "Office Rent", nil)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, rent, cl)
	assert.Equal(t, 3, attempts)
	assert.EqualValues(t, 3, calls.Load())
	assert.GreaterOrEqual(t, elapsed, 3*r.BaseDelay, "base + 2*base")
}

func TestRemoteExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, attempts, err := testRemote(srv.URL).Classify(context.Background(), "Office Rent", nil)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, 3, attempts)
	assert.EqualValues(t, 3, calls.Load())
}

func TestRemoteIncompleteResponseIsFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing tertiary", `{"accountType":"Asset","primary":"Current Assets","secondary":"Cash"}`},
		{"blank primary", `{"accountType":"Asset","primary":" ","secondary":"Cash","tertiary":"Cash"}`},
		{"unknown type", `{"accountType":"Gadget","primary":"a","secondary":"b","tertiary":"c"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, attempts, err := testRemote(srv.URL).Classify(context.Background(), "Cash", nil)
			assert.ErrorIs(t, err, ErrIncompleteResponse)
			assert.Equal(t, 3, attempts)
			assert.EqualValues(t, 3, calls.Load())
		})
	}
}

func TestRemoteTimeoutCountsAsAttempt(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			select {
			case <-release:
			case <-r.Context().Done():
			}
			return
		}
		w.Write([]byte(rentJSON))
	}))
	defer srv.Close()
	defer close(release)

	r := testRemote(srv.URL)
	r.Timeout = 50 * time.Millisecond

	cl, attempts, err := r.Classify(context.Background(), "Office Rent", nil)
	require.NoError(t, err)
	assert.Equal(t, rent, cl)
	assert.Equal(t, 2, attempts)
}

func TestRemoteStopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	r := testRemote(srv.URL)
	r.BaseDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, attempts, err := r.Classify(ctx, "Cash", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
	assert.EqualValues(t, 1, calls.Load())
}
