package openapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/apigen/errors"
)

func TestFetcherResolveLocal(t *testing.T) {
	f := NewFetcher(zaptest.NewLogger(t).Sugar())

	local, err := f.Resolve(context.Background(), "testdata/petstore.yaml")
	require.NoError(t, err)
	defer local.Close()

	assert.False(t, local.Fetched)
	assert.True(t, filepath.IsAbs(local.Path))
	assert.Equal(t, "testdata/petstore.yaml", local.OriginalInput)
}

func TestFetcherRemotePolicy(t *testing.T) {
	srv := httptest.NewServer(http.FileServer(http.Dir("testdata")))
	defer srv.Close()
	url := srv.URL + "/petstore.yaml"

	t.Run("remote refused", func(t *testing.T) {
		f := NewFetcher(zaptest.NewLogger(t).Sugar())
		_, err := f.Resolve(context.Background(), url)
		require.True(t, errors.IsInvalidSourceError(err))
		assert.Contains(t, errors.FlattenHints(err), "allow_remote")
	})

	t.Run("private host refused", func(t *testing.T) {
		f := NewFetcher(zaptest.NewLogger(t).Sugar())
		f.AllowRemote = true
		_, err := f.Resolve(context.Background(), url)
		require.True(t, errors.IsInvalidSourceError(err))
		assert.Contains(t, errors.FlattenHints(err), "allow_private_hosts")
	})

	t.Run("fetched", func(t *testing.T) {
		f := NewFetcher(zaptest.NewLogger(t).Sugar())
		f.AllowRemote = true
		f.AllowPrivateHosts = true
		local, err := f.Resolve(context.Background(), url)
		require.NoError(t, err)

		assert.True(t, local.Fetched)
		assert.Equal(t, "petstore.yaml", filepath.Base(local.Path))
		want, err := os.ReadFile("testdata/petstore.yaml")
		require.NoError(t, err)
		got, err := os.ReadFile(local.Path)
		require.NoError(t, err)
		assert.Equal(t, want, got)

		local.Close()
		_, err = os.Stat(local.Path)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestParseRemoteSource(t *testing.T) {
	srv := httptest.NewServer(http.FileServer(http.Dir("testdata")))
	defer srv.Close()

	p := newTestParser(t, WithRemote(true), WithPrivateHosts(true))
	data, err := p.ParseApisAndTransform(context.Background(), srv.URL+"/petstore.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Petstore", data.Title)
}
