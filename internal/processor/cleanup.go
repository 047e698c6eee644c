package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// normalizedName is the converted audio inside a run's working directory.
const normalizedName = "normalized.wav"

// workspace is the private directory of one pipeline run. The upload and its
// converted WAV live inside it and nowhere else.
type workspace struct {
	dir        string
	uploadPath string
	wavPath    string
}

// newWorkspace creates <UploadDir>/<uuid>/ so concurrent runs never share a
// path, even for identical client filenames.
func (p *implProcessor) newWorkspace(filename string) (*workspace, error) {
	if err := os.MkdirAll(p.opts.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	dir := filepath.Join(p.opts.UploadDir, uuid.NewString())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	return &workspace{
		dir:        dir,
		uploadPath: filepath.Join(dir, storedName(filename)),
		wavPath:    filepath.Join(dir, normalizedName),
	}, nil
}

// storedName is the on-disk name of the upload: the sanitized client name,
// or a generic one when sanitizing leaves nothing usable.
func storedName(filename string) string {
	name := SecureFilename(filename)
	switch {
	case name == "":
		return "upload." + Extension(filename)
	case name == normalizedName:
		return "source.wav"
	}
	return name
}

// save streams the upload body to path and returns the bytes written.
func (p *implProcessor) save(up Upload, path string) (int64, error) {
	if up.Body == nil {
		return 0, fmt.Errorf("upload %q has no body", up.Filename)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, fmt.Errorf("create upload file: %w", err)
	}

	n, err := io.Copy(f, up.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write upload file: %w", err)
	}
	return n, nil
}

// cleanup removes the workspace and everything in it; a missing directory
// is not an error.
func (p *implProcessor) cleanup(ctx context.Context, w *workspace) {
	p.logger.Info(ctx, "Cleaning up temporary files: %s, %s", w.uploadPath, w.wavPath)

	if err := os.RemoveAll(w.dir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup workspace %s: %v", w.dir, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up workspace: %s", w.dir)
	}
}
