package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"mediakit/pkg/config"
)

// Engine resource blobs fetched from the download base location when no
// local binary is available.
var engineResources = []string{"ffmpeg", "ffprobe"}

// Load resolves the engine binary, verifies it, creates the private staging
// filesystem, and probes encoder capabilities. On any failure nothing is
// cached; the caller may retry from scratch.
func Load(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Engine, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	entry := log.WithField("component", "engine")

	binPath, err := resolveBinary(ctx, cfg, entry)
	if err != nil {
		return nil, err
	}

	version, err := checkBinary(ctx, binPath)
	if err != nil {
		return nil, fmt.Errorf("engine binary unusable: %w", err)
	}

	root := cfg.StagingDir
	if root == "" {
		root = os.TempDir()
	}
	stagingDir, err := os.MkdirTemp(root, "mediakit-")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging dir: %w", err)
	}

	eng := New(binPath, stagingDir, afero.NewBasePathFs(afero.NewOsFs(), stagingDir), log)
	if cfg.ProbeEncoders {
		eng.caps = probeCapabilities(ctx, binPath, entry)
	} else {
		eng.caps = assumeAllCapabilities()
	}

	entry.WithFields(logrus.Fields{
		"version": version,
		"staging": stagingDir,
		"threads": eng.caps.EncodeThreads,
		"vp9":     eng.caps.VP9,
		"opus":    eng.caps.Opus,
		"mp3":     eng.caps.MP3,
		"pcm":     eng.caps.PCM,
	}).Info("engine ready")
	return eng, nil
}

// resolveBinary picks the engine binary: explicit config path, then PATH
// lookup, then download from the configured base location.
func resolveBinary(ctx context.Context, cfg *config.Config, log *logrus.Entry) (string, error) {
	if cfg.FFmpegPath != "" {
		return cfg.FFmpegPath, nil
	}
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		return path, nil
	}
	if cfg.DownloadBaseURL == "" {
		return "", errors.New("ffmpeg binary not found on PATH and no download_base_url configured")
	}
	return fetchEngineResources(ctx, cfg.DownloadBaseURL, cfg.BinCacheDir, log)
}

// fetchEngineResources downloads the engine's resource blobs into the cache
// dir, skipping ones already present. Returns the path of the ffmpeg binary.
func fetchEngineResources(ctx context.Context, baseURL, cacheDir string, log *logrus.Entry) (string, error) {
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "mediakit-bin")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create binary cache dir: %w", err)
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 5 * time.Second
	client.Logger = nil // Silence default debug logger

	primary := filepath.Join(cacheDir, engineResources[0])
	for _, name := range engineResources {
		dest := filepath.Join(cacheDir, name)
		if _, err := os.Stat(dest); err == nil {
			continue
		}
		url := strings.TrimSuffix(baseURL, "/") + "/" + name
		if err := fetchResource(ctx, client, url, dest); err != nil {
			return "", fmt.Errorf("failed to fetch engine resource %s: %w", name, err)
		}
		log.WithField("resource", name).Info("fetched engine resource")
	}
	return primary, nil
}

func fetchResource(ctx context.Context, client *retryablehttp.Client, url, dest string) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return err
	}
	return f.Close()
}

// checkBinary runs -version and returns the banner line.
func checkBinary(ctx context.Context, binPath string) (string, error) {
	out, err := exec.CommandContext(ctx, binPath, "-version").Output()
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}
