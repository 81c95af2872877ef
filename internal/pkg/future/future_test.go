package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/degreeaudit/internal/pkg/apperrors"
)

func TestGo_ResolvesValue(t *testing.T) {
	f := Go(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	})

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestGo_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	f := Go(context.Background(), func(ctx context.Context) (string, error) {
		return "", boom
	})

	_, err := f.Await(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestGo_RecoversPanic(t *testing.T) {
	f := Go(context.Background(), func(ctx context.Context) (int, error) {
		panic("bad")
	})

	_, err := f.Await(context.Background())
	assert.ErrorContains(t, err, "future panicked: bad")
}

func TestAwait_ManyWaitersSeeSameValue(t *testing.T) {
	release := make(chan struct{})
	f := Go(context.Background(), func(ctx context.Context) (int, error) {
		<-release
		return 7, nil
	})

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := f.Await(context.Background())
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	close(release)
	wg.Wait()

	for _, v := range results {
		assert.Equal(t, 7, v)
	}
}

func TestAwait_ContextCancelled(t *testing.T) {
	f := Go(context.Background(), func(ctx context.Context) (int, error) {
		time.Sleep(time.Second)
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolvedAndFailed(t *testing.T) {
	v, err := Resolved("ok").Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	boom := errors.New("boom")
	_, err = Failed[string](boom).Await(context.Background())
	assert.ErrorIs(t, err, boom)

	select {
	case <-Resolved(1).Done():
	default:
		t.Fatal("resolved future should be settled")
	}
}

func TestAwait_NilFuture(t *testing.T) {
	var f *Future[int]
	v, err := f.Await(context.Background())
	assert.Zero(t, v)
	assert.ErrorIs(t, err, apperrors.ErrMissingField)

	select {
	case <-f.Done():
	default:
		t.Fatal("nil future should report as settled")
	}
}
