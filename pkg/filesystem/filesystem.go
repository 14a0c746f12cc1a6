package filesystem

import (
	"io/fs"

	"github.com/arthur-debert/buildexcluder/pkg/types"
	"github.com/spf13/afero"
)

// FS adapts an afero.Fs to types.FS. Stat, MkdirAll, Remove, RemoveAll and
// Rename come straight from the wrapped afero.Fs.
type FS struct {
	afero.Afero
}

// NewOS returns the FS backed by the real filesystem.
func NewOS() types.FS {
	return NewAferoFS(afero.NewOsFs())
}

// NewAferoFS wraps base.
func NewAferoFS(base afero.Fs) types.FS {
	return &FS{Afero: afero.Afero{Fs: base}}
}

// ReadFile refuses directories, which some afero backends would otherwise
// read as empty files.
func (f *FS) ReadFile(name string) ([]byte, error) {
	if isDir, err := f.IsDir(name); err == nil && isDir {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return f.Afero.ReadFile(name)
}

func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := f.Afero.ReadDir(name)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	return entries, nil
}

// Lstat does not follow a final symlink on backends implementing
// afero.Lstater; other backends fall back to Stat.
func (f *FS) Lstat(name string) (fs.FileInfo, error) {
	if l, ok := f.Fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)
		return info, err
	}
	return f.Fs.Stat(name)
}
