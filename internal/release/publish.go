package release

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"ssocli/internal/logging"
)

// Environment contract for the publish step. The API token takes precedence
// over username/password when both are set.
const (
	EnvRegistryURL      = "SSO_REGISTRY_URL"
	EnvRegistryToken    = "SSO_REGISTRY_TOKEN"
	EnvRegistryUser     = "SSO_REGISTRY_USERNAME"
	EnvRegistryPassword = "SSO_REGISTRY_PASSWORD"
)

// Credentials identify the target registry and how to authenticate to it.
type Credentials struct {
	URL      string
	Token    string
	Username string
	Password string
}

// CredentialsFromEnv reads the registry contract from the environment.
// Missing URL or missing credentials are terminal validation errors.
func CredentialsFromEnv() (Credentials, error) {
	registryURL := strings.TrimSpace(os.Getenv(EnvRegistryURL))
	if registryURL == "" {
		return Credentials{}, fmt.Errorf("%s is not set", EnvRegistryURL)
	}
	creds := Credentials{URL: registryURL}

	if token := os.Getenv(EnvRegistryToken); token != "" {
		creds.Token = token
		return creds, nil
	}

	creds.Username = os.Getenv(EnvRegistryUser)
	creds.Password = os.Getenv(EnvRegistryPassword)
	if creds.Username == "" || creds.Password == "" {
		return Credentials{}, fmt.Errorf(
			"registry credentials missing: set %s, or both %s and %s",
			EnvRegistryToken, EnvRegistryUser, EnvRegistryPassword)
	}
	return creds, nil
}

// Publisher runs the build-and-upload half of the release pipeline. Every
// step is fail-fast: the first error aborts the release.
type Publisher struct {
	Manifest string
	Name     string   // artifact base name, e.g. "sso"
	DistDir  string   // build output directory, packed into the archive
	Build    []string // build command; Build[0] must be on PATH

	client   *http.Client
	log      *zap.Logger
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
}

// NewPublisher returns a Publisher with the default build pipeline: compile
// the CLI into dist/ with the Go toolchain.
func NewPublisher(manifest string) *Publisher {
	p := &Publisher{
		Manifest: manifest,
		Name:     "sso",
		DistDir:  "dist",
		Build:    []string{"go", "build", "-o", "dist/sso", "./cmd/sso"},
		client:   &http.Client{Timeout: 5 * time.Minute},
		log:      logging.Named("release"),
		lookPath: exec.LookPath,
	}
	p.run = func(ctx context.Context, name string, args ...string) error {
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}
	return p
}

// Publish executes the pipeline and returns the uploaded archive path.
func (p *Publisher) Publish(ctx context.Context, creds Credentials) (string, error) {
	version, err := ReadVersion(p.Manifest)
	if err != nil {
		return "", err
	}
	p.log.Info("publishing release", zap.String("version", version.String()))

	if len(p.Build) == 0 {
		return "", fmt.Errorf("no build command configured")
	}
	tool := p.Build[0]
	if _, err := p.lookPath(tool); err != nil {
		return "", fmt.Errorf("build tool %q not found in PATH", tool)
	}

	if err := os.MkdirAll(p.DistDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", p.DistDir, err)
	}
	if err := p.run(ctx, tool, p.Build[1:]...); err != nil {
		return "", fmt.Errorf("build failed: %w", err)
	}

	entries, err := os.ReadDir(p.DistDir)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", p.DistDir, err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("build produced no artifacts in %s", p.DistDir)
	}

	archive := filepath.Join(filepath.Dir(p.DistDir), fmt.Sprintf("%s-%s.tar.gz", p.Name, version))
	if err := p.pack(archive); err != nil {
		return "", err
	}
	p.log.Info("packed artifact", zap.String("archive", archive))

	if err := p.upload(ctx, creds, archive); err != nil {
		return "", err
	}
	return archive, nil
}

// pack writes the contents of DistDir into a tar.gz archive.
func (p *Publisher) pack(archivePath string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	defer gz.Close()
	tw := tar.NewWriter(gz)
	defer tw.Close()

	return filepath.Walk(p.DistDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(p.DistDir, path)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
}

// upload POSTs the archive as a multipart form to the registry.
func (p *Publisher) upload(ctx context.Context, creds Credentials, archivePath string) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(archivePath))
	if err != nil {
		return err
	}
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		f.Close()
		return err
	}
	f.Close()
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, creds.URL, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if creds.Token != "" {
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	} else {
		req.SetBasicAuth(creds.Username, creds.Password)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed: registry returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	p.log.Info("uploaded artifact", zap.String("registry", creds.URL))
	return nil
}
