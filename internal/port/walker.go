package port

// FileWalker lists the corpus source files under a root directory.
type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

// FileInfo identifies a source file. Size and ModTime feed the source
// fingerprint used to skip unchanged rebuilds.
type FileInfo struct {
	Path    string
	ModTime int64
	Size    int64
}

type FileReader interface {
	ReadFile(path string) (string, error)
}
