package query_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/digitalocean/contact-page/pkg/query"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var formKey = query.Key{Kind: "contactForm", ID: "form-1", Locale: "en-US"}

func counting(calls *atomic.Int32, value string) query.Fetcher[string] {
	return func(context.Context) (string, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestGetCachesByKey(t *testing.T) {
	c := query.New[string](query.Config{})
	var calls atomic.Int32

	for i := 0; i < 3; i++ {
		v, err := c.Get(context.Background(), formKey, counting(&calls, "a"))
		require.NoError(t, err)
		assert.Equal(t, "a", v)
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, query.StateReady, c.State(formKey))
}

func TestGetSeparatesLocaleAndPreview(t *testing.T) {
	c := query.New[string](query.Config{})
	var calls atomic.Int32

	keys := []query.Key{
		formKey,
		{Kind: formKey.Kind, ID: formKey.ID, Locale: "de-DE"},
		{Kind: formKey.Kind, ID: formKey.ID, Locale: formKey.Locale, Preview: true},
		{Kind: "helpSection", ID: formKey.ID, Locale: formKey.Locale},
	}
	for _, key := range keys {
		_, err := c.Get(context.Background(), key, counting(&calls, key.String()))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(len(keys)), calls.Load())
	assert.Equal(t, len(keys), c.Len())
}

func TestGetKeepsDelimiterKeysApart(t *testing.T) {
	c := query.New[string](query.Config{})
	a := query.Key{Kind: "contactPage", ID: "a|en"}
	b := query.Key{Kind: "contactPage", ID: "a", Locale: "en|"}
	require.NotEqual(t, a.String(), b.String())

	started := make(chan struct{})
	release := make(chan struct{})
	resultA := make(chan string, 1)
	go func() {
		v, err := c.Get(context.Background(), a, func(context.Context) (string, error) {
			close(started)
			<-release
			return "A", nil
		})
		assert.NoError(t, err)
		resultA <- v
	}()
	<-started

	v, err := c.Get(context.Background(), b, func(context.Context) (string, error) {
		return "B", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "B", v)

	close(release)
	assert.Equal(t, "A", <-resultA)
}

func TestStateStaysLoadingAcrossInvalidation(t *testing.T) {
	c := query.New[string](query.Config{})

	blocking := func(value string, started, release chan struct{}) query.Fetcher[string] {
		return func(context.Context) (string, error) {
			close(started)
			<-release
			return value, nil
		}
	}
	get := func(fetch query.Fetcher[string]) <-chan string {
		out := make(chan string, 1)
		go func() {
			v, err := c.Get(context.Background(), formKey, fetch)
			assert.NoError(t, err)
			out <- v
		}()
		return out
	}

	firstStarted, firstRelease := make(chan struct{}), make(chan struct{})
	first := get(blocking("old", firstStarted, firstRelease))
	<-firstStarted

	c.InvalidateAll()

	secondStarted, secondRelease := make(chan struct{}), make(chan struct{})
	second := get(blocking("new", secondStarted, secondRelease))
	<-secondStarted

	close(firstRelease)
	assert.Equal(t, "old", <-first)
	assert.Equal(t, query.StateLoading, c.State(formKey))
	assert.Zero(t, c.Len())

	close(secondRelease)
	assert.Equal(t, "new", <-second)
	assert.Equal(t, query.StateReady, c.State(formKey))

	v, err := c.Get(context.Background(), formKey, func(context.Context) (string, error) {
		return "", errors.New("not called")
	})
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestInvalidatedFailureIsNotRecorded(t *testing.T) {
	c := query.New[string](query.Config{})
	started, release := make(chan struct{}), make(chan struct{})

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Get(context.Background(), formKey, func(context.Context) (string, error) {
			close(started)
			<-release
			return "", errors.New("boom")
		})
		errCh <- err
	}()
	<-started

	c.Invalidate(formKey)
	close(release)
	assert.EqualError(t, <-errCh, "boom")
	assert.Equal(t, query.StateIdle, c.State(formKey))
}

func TestGetDeduplicatesConcurrentRequests(t *testing.T) {
	c := query.New[string](query.Config{})
	var calls atomic.Int32
	release := make(chan struct{})

	fetch := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(context.Background(), formKey, fetch)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	require.Eventually(t, func() bool {
		return c.State(formKey) == query.StateLoading
	}, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestGetDoesNotCacheErrors(t *testing.T) {
	c := query.New[string](query.Config{})
	boom := errors.New("boom")

	_, err := c.Get(context.Background(), formKey, func(context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, query.StateFailed, c.State(formKey))

	var calls atomic.Int32
	v, err := c.Get(context.Background(), formKey, counting(&calls, "ok"))
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, query.StateReady, c.State(formKey))
}

func TestGetExpiresAfterTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := query.New[string](query.Config{
		TTL: time.Minute,
		Now: func() time.Time { return now },
	})
	var calls atomic.Int32

	_, err := c.Get(context.Background(), formKey, counting(&calls, "a"))
	require.NoError(t, err)

	now = now.Add(59 * time.Second)
	_, err = c.Get(context.Background(), formKey, counting(&calls, "a"))
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	now = now.Add(time.Second)
	assert.Equal(t, query.StateIdle, c.State(formKey))
	_, err = c.Get(context.Background(), formKey, counting(&calls, "a"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestInvalidateForcesRefetch(t *testing.T) {
	c := query.New[string](query.Config{})
	var calls atomic.Int32

	_, err := c.Get(context.Background(), formKey, counting(&calls, "a"))
	require.NoError(t, err)
	c.Invalidate(formKey)
	assert.Equal(t, query.StateIdle, c.State(formKey))

	v, err := c.Get(context.Background(), formKey, counting(&calls, "b"))
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	c.InvalidateAll()
	assert.Zero(t, c.Len())
}

func TestCallerCancellationDoesNotAbortSharedFetch(t *testing.T) {
	c := query.New[string](query.Config{FetchTimeout: time.Second})
	release := make(chan struct{})
	var fetchErr atomic.Value

	fetch := func(ctx context.Context) (string, error) {
		select {
		case <-release:
			return "done", nil
		case <-ctx.Done():
			fetchErr.Store(ctx.Err())
			return "", ctx.Err()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, formKey, fetch)
		errCh <- err
	}()

	require.Eventually(t, func() bool {
		return c.State(formKey) == query.StateLoading
	}, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	close(release)
	require.Eventually(t, func() bool {
		return c.State(formKey) == query.StateReady
	}, time.Second, time.Millisecond)
	assert.Nil(t, fetchErr.Load())
}

func TestFetchTimeout(t *testing.T) {
	c := query.New[string](query.Config{FetchTimeout: 10 * time.Millisecond})

	_, err := c.Get(context.Background(), formKey, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
