package doc

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheEnvVar        = "DOCHOP_CACHE_DIR"
	cacheSubdir        = "dochop/docs"
	cacheTTL           = 24 * time.Hour
	partialSuffix      = ".part"
	metaSuffix         = ".meta"
	defaultHTTPTimeout = 60 * time.Second
)

// docCache stores fetched remote documents on disk so re-opening a URL
// within the TTL does not hit the network.
type docCache struct {
	dir    string
	client *http.Client
}

type docCacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

func newDocCache(client *http.Client) (*docCache, error) {
	dir := os.Getenv(cacheEnvVar)
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = filepath.Join(os.TempDir(), "dochop-cache")
		}
		dir = filepath.Join(base, cacheSubdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &docCache{dir: dir, client: client}, nil
}

// Fetch returns a local path holding the document at docURL, downloading
// only when the cached copy is stale or absent. A stale copy is still
// served when revalidation fails, so flaky networks degrade gracefully.
func (c *docCache) Fetch(ctx context.Context, docURL string) (string, error) {
	key := cacheKey(docURL)
	docPath, metaPath, partialPath := c.pathsFor(key, docURL)

	if info, err := os.Stat(docPath); err == nil && time.Since(info.ModTime()) < cacheTTL && info.Size() > 0 {
		return docPath, nil
	}

	meta, _ := readMeta(metaPath)
	current, _ := os.Stat(docPath)
	path, err := c.download(ctx, docURL, docPath, metaPath, partialPath, meta, current)
	if err == nil {
		return path, nil
	}
	if current != nil && current.Size() > 0 {
		return docPath, nil
	}
	return "", err
}

func (c *docCache) download(ctx context.Context, docURL, docPath, metaPath, partialPath string, meta docCacheMeta, current os.FileInfo) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return "", err
	}
	if current != nil && current.Size() > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if current != nil && current.Size() > 0 {
			meta.CachedAt = time.Now().UTC()
			writeMeta(metaPath, meta)
			return docPath, nil
		}
		return c.download(ctx, docURL, docPath, metaPath, partialPath, docCacheMeta{}, nil)
	case http.StatusOK:
		return c.saveBody(resp, docPath, metaPath, partialPath)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("document download failed: %s (%s)", resp.Status, string(body))
	}
}

func (c *docCache) saveBody(resp *http.Response, docPath, metaPath, partialPath string) (string, error) {
	file, err := os.OpenFile(partialPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(partialPath, docPath); err != nil {
		return "", err
	}

	meta := docCacheMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
	}
	if info, err := os.Stat(docPath); err == nil {
		meta.Size = info.Size()
	}
	if err := writeMeta(metaPath, meta); err != nil {
		return "", err
	}
	return docPath, nil
}

func (c *docCache) pathsFor(key, docURL string) (string, string, string) {
	ext := remoteExt(docURL)
	return filepath.Join(c.dir, key+ext), filepath.Join(c.dir, key+metaSuffix), filepath.Join(c.dir, key+partialSuffix)
}

// remoteExt preserves the URL's extension so PDF detection keeps working
// for cached copies.
func remoteExt(docURL string) string {
	parsed, err := url.Parse(docURL)
	if err != nil {
		return ".md"
	}
	ext := filepath.Ext(parsed.Path)
	switch ext {
	case ".pdf", ".md", ".txt":
		return ext
	default:
		return ".md"
	}
}

func cacheKey(docURL string) string {
	sum := sha1.Sum([]byte(docURL))
	return hex.EncodeToString(sum[:])
}

func readMeta(path string) (docCacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return docCacheMeta{}, err
	}
	var meta docCacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return docCacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta docCacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
