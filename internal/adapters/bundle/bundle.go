// Package bundle owns the request-scoped workspace an uploaded crash bundle is unpacked into
package bundle

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mholt/archiver"

	"crashrelay/internal/core/event"
	"crashrelay/internal/core/report"
	perr "crashrelay/internal/platform/errors"
)

// File names inside a workspace
const (
	ReportFile  = "report.json"
	stagingFile = "upload.zip"
	extractDir  = "extracted"
)

// Workspace is a fresh directory owned by one upload
// Close removes everything under it and is safe to call more than once
type Workspace struct {
	ID   string
	root string

	once sync.Once
	err  error
}

// Open creates a workspace under baseDir; an empty baseDir uses the OS temp dir
func Open(baseDir string) (*Workspace, error) {
	id := uuid.NewString()
	root, err := os.MkdirTemp(baseDir, "report-"+id+"-")
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "create workspace")
	}
	if err := os.Mkdir(filepath.Join(root, extractDir), 0o700); err != nil {
		_ = os.RemoveAll(root)
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "create extraction dir")
	}
	return &Workspace{ID: id, root: root}, nil
}

// Root is the workspace directory
func (w *Workspace) Root() string { return w.root }

// Dir is the directory the archive is unpacked into
func (w *Workspace) Dir() string { return filepath.Join(w.root, extractDir) }

// Close removes the workspace tree
func (w *Workspace) Close() error {
	w.once.Do(func() { w.err = os.RemoveAll(w.root) })
	return w.err
}

// Extract stages the upload, unpacks it into Dir and deletes the staged archive
func (w *Workspace) Extract(src io.Reader) error {
	staged := filepath.Join(w.root, stagingFile)
	f, err := os.OpenFile(staged, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "stage upload")
	}
	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		return perr.Wrap(err, perr.ErrorCodeValidation, "read upload")
	}
	if err := f.Close(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "stage upload")
	}
	defer os.Remove(staged)

	z := archiver.Zip{
		MkdirAll:               true,
		OverwriteExisting:      false,
		ImplicitTopLevelFolder: false,
	}
	if err := w.checkEntries(&z, staged); err != nil {
		return err
	}
	if err := z.Unarchive(staged, w.Dir()); err != nil {
		return perr.WithOp(perr.Wrap(err, perr.ErrorCodeValidation, "malformed report archive"), "extract")
	}
	return nil
}

// checkEntries walks the staged archive and rejects entries that would land
// outside Dir or collide with an earlier entry; Unarchive joins names unchecked
func (w *Workspace) checkEntries(z *archiver.Zip, staged string) error {
	dir := w.Dir()
	seen := map[string]bool{}
	var bad error
	walkErr := z.Walk(staged, func(f archiver.File) error {
		hdr, ok := f.Header.(zip.FileHeader)
		if !ok {
			bad = perr.ClientInputf("unexpected archive entry header %T", f.Header)
			return archiver.ErrStopWalk
		}
		target, err := entryPath(dir, hdr.Name)
		if err != nil {
			bad = err
			return archiver.ErrStopWalk
		}
		if seen[target] {
			bad = perr.ClientInputf("archive entry %q appears more than once", hdr.Name)
			return archiver.ErrStopWalk
		}
		seen[target] = true
		return nil
	})
	if bad != nil {
		return perr.WithOp(bad, "extract")
	}
	if walkErr != nil {
		return perr.WithOp(perr.Wrap(walkErr, perr.ErrorCodeValidation, "malformed report archive"), "extract")
	}
	return nil
}

// entryPath resolves an archive entry name under dir
func entryPath(dir, name string) (string, error) {
	clean := filepath.FromSlash(strings.ReplaceAll(name, "\\", "/"))
	if clean == "" || filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" {
		return "", perr.ClientInputf("archive entry %q has an illegal path", name)
	}
	target := filepath.Join(dir, clean)
	rel, err := filepath.Rel(dir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", perr.ClientInputf("archive entry %q escapes the bundle", name)
	}
	return target, nil
}

// ReadReport decodes report.json from the root of the extracted bundle
func (w *Workspace) ReadReport() (report.Report, error) {
	f, err := os.Open(filepath.Join(w.Dir(), ReportFile))
	if err != nil {
		if os.IsNotExist(err) {
			return report.Report{}, perr.WithField(perr.ClientInputf("bundle has no %s at its root", ReportFile), ReportFile)
		}
		return report.Report{}, perr.Wrap(err, perr.ErrorCodeUnknown, "open report")
	}
	defer f.Close()

	r, err := report.Decode(f)
	if err != nil {
		return report.Report{}, perr.WithField(err, ReportFile)
	}
	return r, nil
}

// Attachments lists the regular files at the root of the bundle in name order
// report.json is included; nested directories are not walked
func (w *Workspace) Attachments() ([]event.Attachment, error) {
	entries, err := os.ReadDir(w.Dir())
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "list bundle")
	}

	out := make([]event.Attachment, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "stat attachment")
		}
		out = append(out, event.Attachment{Name: e.Name(), Path: filepath.Join(w.Dir(), e.Name()), Size: info.Size()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Exists reports whether the workspace directory is still on disk
func (w *Workspace) Exists() bool {
	_, err := os.Stat(w.root)
	return err == nil
}
