// Package iconsrv turns game icons (URL, data URI or bare base64) into data URIs.
package iconsrv

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"game-sl/constants"
)

// ErrUnsupportedIcon is returned for icon strings that are neither a URL nor image data.
var ErrUnsupportedIcon = errors.New("unsupported icon format")

const maxIconBytes = 4 << 20

// Service downloads and caches icons under <workdir>/cache/icons.
type Service struct {
	cacheDir string
	Client   *http.Client
}

// New creates an icon Service caching under workDir.
func New(workDir string) *Service {
	return &Service{
		cacheDir: filepath.Join(workDir, constants.CacheDir, constants.IconsDir),
		Client:   &http.Client{},
	}
}

// Normalize returns icon as a data URI. Empty icons stay empty.
func (s *Service) Normalize(ctx context.Context, icon string) (string, error) {
	icon = strings.TrimSpace(icon)
	switch {
	case icon == "":
		return "", nil
	case strings.HasPrefix(icon, "data:"):
		return icon, nil
	case strings.HasPrefix(icon, "http://"), strings.HasPrefix(icon, "https://"):
		return s.fromURL(ctx, icon)
	}

	data, err := base64.StdEncoding.DecodeString(icon)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedIcon, err)
	}
	ext := sniffExt(data)
	if ext == "" {
		return "", ErrUnsupportedIcon
	}
	return toDataURI(data, ext), nil
}

func (s *Service) fromURL(ctx context.Context, iconURL string) (string, error) {
	if err := os.MkdirAll(s.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache dir: %w", err)
	}
	sum := sha1.Sum([]byte(iconURL))
	key := hex.EncodeToString(sum[:])

	if matches, _ := filepath.Glob(filepath.Join(s.cacheDir, key+".*")); len(matches) > 0 {
		if data, err := os.ReadFile(matches[0]); err == nil {
			return toDataURI(data, filepath.Ext(matches[0])), nil
		}
	}

	data, err := s.download(ctx, iconURL)
	if err != nil {
		return "", err
	}
	ext := sniffExt(data)
	if ext == "" {
		ext = urlExt(iconURL)
	}
	_ = os.WriteFile(filepath.Join(s.cacheDir, key+ext), data, 0o644)
	return toDataURI(data, ext), nil
}

func (s *Service) download(ctx context.Context, iconURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iconURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create icon request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform icon request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("icon fetch failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxIconBytes))
}

func urlExt(iconURL string) string {
	u, err := url.Parse(iconURL)
	if err != nil {
		return ".png"
	}
	ext := strings.ToLower(filepath.Ext(u.Path))
	if getMimeType(ext) == "application/octet-stream" {
		return ".png"
	}
	return ext
}

// sniffExt guesses the image type from its magic bytes.
func sniffExt(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return ".png"
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return ".jpg"
	case bytes.HasPrefix(data, []byte{0x00, 0x00, 0x01, 0x00}):
		return ".ico"
	}
	head := strings.TrimSpace(string(data[:min(len(data), 256)]))
	if strings.HasPrefix(head, "<svg") || (strings.HasPrefix(head, "<?xml") && strings.Contains(head, "<svg")) {
		return ".svg"
	}
	return ""
}

func getMimeType(ext string) string {
	switch ext {
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

func toDataURI(data []byte, ext string) string {
	mimeType := getMimeType(ext)
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
