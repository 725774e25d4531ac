package tools

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/jbdamask/toolhost/pkg/llm"
)

const (
	maxPageBytes  = 1 << 20
	maxPageChars  = 20000
	maxMediaBytes = 20 << 20
)

// fetcher downloads pages and media referenced by tool arguments.
type fetcher struct {
	client *http.Client
}

func newFetcher(client *http.Client) fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return fetcher{client: client}
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (f fetcher) get(ctx context.Context, service, rawURL string, limit int64) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", invalid("url", "%q is not a valid URL.", rawURL)
	}
	req.Header.Set("User-Agent", "toolhost/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &UpstreamError{Service: service, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, "", fmt.Errorf("fetch failed: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, "", invalid("url", "%s is larger than %d MB.", rawURL, limit>>20)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// markdown fetches a page and returns it converted to Markdown.
func (f fetcher) markdown(ctx context.Context, rawURL string) (string, error) {
	body, _, err := f.get(ctx, "Page download", rawURL, maxPageBytes)
	if err != nil {
		return "", err
	}

	converter := md.NewConverter("", true, nil)
	text, err := converter.ConvertString(string(body))
	if err != nil {
		return "", &PayloadError{Service: rawURL, Err: fmt.Errorf("html parsing failed: %w", err)}
	}

	text = strings.TrimSpace(text)
	if r := []rune(text); len(r) > maxPageChars {
		text = string(r[:maxPageChars]) + "\n...[Truncated]..."
	}
	return text, nil
}

// media loads an image or video from a local path or an http(s) URL.
func (f fetcher) media(ctx context.Context, ref string) (llm.Attachment, error) {
	var (
		data        []byte
		contentType string
		err         error
	)
	if isURL(ref) {
		data, contentType, err = f.get(ctx, "Media download", ref, maxMediaBytes)
		if err != nil {
			return llm.Attachment{}, err
		}
	} else {
		info, statErr := os.Stat(ref)
		switch {
		case os.IsNotExist(statErr):
			return llm.Attachment{}, invalid("path", "File not found: %s", ref)
		case statErr != nil:
			return llm.Attachment{}, fmt.Errorf("stat %s: %w", ref, statErr)
		case info.IsDir():
			return llm.Attachment{}, invalid("path", "%s is a directory, not a file.", ref)
		case info.Size() > maxMediaBytes:
			return llm.Attachment{}, invalid("path", "%s is larger than %d MB.", ref, maxMediaBytes>>20)
		}
		data, err = os.ReadFile(ref)
		if err != nil {
			return llm.Attachment{}, fmt.Errorf("read %s: %w", ref, err)
		}
	}
	if len(data) == 0 {
		return llm.Attachment{}, invalid("path", "%s is empty.", ref)
	}
	return llm.Attachment{MimeType: detectMimeType(ref, contentType, data), Data: data}, nil
}

// detectMimeType prefers a specific Content-Type header, then the file
// extension, then content sniffing.
func detectMimeType(ref, contentType string, data []byte) string {
	if contentType != "" {
		if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt != "application/octet-stream" {
			return mt
		}
	}

	name := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		name = u.Path
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".heic":
		return "image/heic"
	case ".mp4":
		return "video/mp4"
	case ".mov":
		return "video/quicktime"
	case ".webm":
		return "video/webm"
	case ".avi":
		return "video/x-msvideo"
	case ".pdf":
		return "application/pdf"
	}

	mt, _, err := mime.ParseMediaType(http.DetectContentType(data))
	if err != nil {
		return "application/octet-stream"
	}
	return mt
}
