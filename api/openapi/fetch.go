package openapi

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/teranos/apigen/errors"
	"github.com/teranos/apigen/internal/httpclient"
)

// LocalSource is a description file on disk, possibly fetched.
type LocalSource struct {
	Path          string
	OriginalInput string
	Fetched       bool
	cleanup       func()
}

// Close removes fetched files.
func (s *LocalSource) Close() {
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

// Fetcher turns source inputs into local files.
type Fetcher struct {
	// AllowRemote permits anything that is not a local path.
	AllowRemote bool
	// AllowPrivateHosts permits http(s) sources on loopback and private
	// addresses.
	AllowPrivateHosts bool
	// Timeout bounds one http(s) download, 0 = none.
	Timeout time.Duration
	logger  *zap.SugaredLogger
}

// NewFetcher returns a fetcher that refuses remote sources until
// AllowRemote is set.
func NewFetcher(logger *zap.SugaredLogger) *Fetcher {
	return &Fetcher{Timeout: DefaultFetchTimeout, logger: logger}
}

// DefaultFetchTimeout bounds http(s) downloads.
const DefaultFetchTimeout = time.Minute

// Resolve turns an input into a local file using go-getter detection.
// Supports:
//   - Local paths: ./api.yaml, /abs/api.yaml, ~/api.yaml
//   - HTTP(S) URLs: https://example.com/openapi.yaml
//   - Any other go-getter source (git::, s3::, gcs::) when it names a file
//
// Remote inputs are refused unless AllowRemote is set.
func (f *Fetcher) Resolve(ctx context.Context, input string) (*LocalSource, error) {
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	detected, err := getter.Detect(input, pwd, getter.Detectors)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidSource, "failed to detect source type of %s: %v", input, err)
	}

	f.logger.Debugw("go-getter detected source",
		"input", input,
		"detected", detected,
	)

	parsedURL, err := url.Parse(detected)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidSource, "failed to parse detected URL %s: %v", detected, err)
	}

	if parsedURL.Scheme == "file" || parsedURL.Scheme == "" {
		localPath := input
		if parsedURL.Scheme == "file" {
			localPath = parsedURL.Path
		}
		if strings.HasPrefix(localPath, "~/") {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, errors.Wrap(err, "failed to expand home directory")
			}
			localPath = filepath.Join(home, localPath[2:])
		}
		if !filepath.IsAbs(localPath) {
			localPath = filepath.Join(pwd, localPath)
		}
		if _, err := os.Stat(localPath); err != nil {
			return nil, errors.NewInvalidSourceError("cannot read %s: %v", input, err)
		}
		return &LocalSource{Path: localPath, OriginalInput: input, cleanup: func() {}}, nil
	}

	if !f.AllowRemote {
		return nil, errors.WithHint(
			errors.NewInvalidSourceError("remote source %s is not allowed", input),
			"set parser.allow_remote = true in apigen.toml")
	}
	if parsedURL.Scheme == "http" || parsedURL.Scheme == "https" {
		if err := httpclient.ValidateURL(parsedURL, f.AllowPrivateHosts); err != nil {
			return nil, errors.WithHint(
				errors.NewInvalidSourceError("%s: %v", input, err),
				"set parser.allow_private_hosts = true to fetch from local servers")
		}
	}
	return f.fetch(ctx, input, detected)
}

// getters returns go-getter's defaults with http(s) going through the
// address-checking client.
func (f *Fetcher) getters() map[string]getter.Getter {
	client := httpclient.New(httpclient.Options{
		Timeout:      f.Timeout,
		AllowPrivate: f.AllowPrivateHosts,
	})
	out := make(map[string]getter.Getter, len(getter.Getters))
	for scheme, g := range getter.Getters {
		out[scheme] = g
	}
	httpGetter := &getter.HttpGetter{Client: client, Netrc: true}
	out["http"] = httpGetter
	out["https"] = httpGetter
	return out
}

func (f *Fetcher) fetch(ctx context.Context, input, detected string) (*LocalSource, error) {
	tempDir, err := os.MkdirTemp("", "apigen-source-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}

	name := path.Base(strings.SplitN(strings.TrimPrefix(detected, "git::"), "?", 2)[0])
	if name == "" || name == "." || name == "/" {
		name = "openapi.yaml"
	}
	dst := filepath.Join(tempDir, name)

	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     dst,
		Mode:    getter.ClientModeFile,
		Getters: f.getters(),
	}

	f.logger.Infow("Fetching API description",
		"input", input,
		"destination", dst,
	)

	if err := client.Get(); err != nil {
		os.RemoveAll(tempDir)
		return nil, errors.NewInvalidSourceError("failed to fetch %s: %v", input, err)
	}

	return &LocalSource{
		Path:          dst,
		OriginalInput: input,
		Fetched:       true,
		cleanup:       func() { os.RemoveAll(tempDir) },
	}, nil
}
