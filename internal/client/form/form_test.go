package form

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type indexerParams struct {
	Name   string `json:"name" validate:"required"`
	URL    string `json:"url" validate:"required,url"`
	APIKey string `json:"api_key" validate:"required"`
}

type nzbParams struct {
	Path string `json:"path" validate:"required,file_exists"`
}

func TestValidateReportsFieldMessages(t *testing.T) {
	f := New[indexerParams]()
	f.Set(indexerParams{URL: "not a url", APIKey: "k"})

	require.False(t, f.Validate())
	errs := f.Errors()
	assert.Equal(t, "is required", errs["name"])
	assert.Equal(t, "must be a valid url", errs["url"])
	assert.NotContains(t, errs, "api_key")
}

func TestValidatePassesAndClearsErrors(t *testing.T) {
	f := New[indexerParams]()
	f.Set(indexerParams{URL: "bad"})
	require.False(t, f.Validate())

	f.Set(indexerParams{Name: "nzb.example", URL: "https://nzb.example/api", APIKey: "k"})
	require.True(t, f.Validate())
	assert.Empty(t, f.Errors())
}

func TestFileExistsRule(t *testing.T) {
	f := New[nzbParams]()

	f.Set(nzbParams{Path: filepath.Join(t.TempDir(), "missing.nzb")})
	require.False(t, f.Validate())
	assert.Equal(t, "must be an existing file", f.Errors()["path"])

	path := filepath.Join(t.TempDir(), "show.nzb")
	require.NoError(t, os.WriteFile(path, []byte("<nzb/>"), 0o600))
	f.Set(nzbParams{Path: path})
	assert.True(t, f.Validate())
}

func TestSubmitRejectsInvalidValue(t *testing.T) {
	f := New[indexerParams]()
	f.Set(indexerParams{})

	called := false
	err := f.Submit(context.Background(), func(ctx context.Context, v indexerParams) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.False(t, called)
	assert.NotEmpty(t, f.Errors())
}

func TestSubmitGuardsAgainstConcurrentSubmits(t *testing.T) {
	f := New[indexerParams]()
	f.Set(indexerParams{Name: "n", URL: "https://nzb.example", APIKey: "k"})

	entered := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = f.Submit(context.Background(), func(ctx context.Context, v indexerParams) error {
			close(entered)
			<-release
			return nil
		})
	}()

	<-entered
	assert.True(t, f.Busy())
	err := f.Submit(context.Background(), func(ctx context.Context, v indexerParams) error { return nil })
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	wg.Wait()
	assert.False(t, f.Busy())
}

func TestSubmitPropagatesHandlerError(t *testing.T) {
	f := New[indexerParams]()
	f.Set(indexerParams{Name: "n", URL: "https://nzb.example", APIKey: "k"})

	want := errors.New("backend down")
	err := f.Submit(context.Background(), func(ctx context.Context, v indexerParams) error { return want })
	assert.ErrorIs(t, err, want)
	assert.False(t, f.Busy())
}
