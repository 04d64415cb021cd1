package index

// DocumentIndex defines the interface for document store operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type DocumentIndex interface {
	UpsertDocument(row DocumentRow) error
	GetDocument(id string) (*DocumentRow, error)
	GetState(id string) (State, bool, error)
	DeleteDocument(id string) error
	DeleteByFilePath(path string) ([]string, error)
	ListDocuments(f ListFilter) ([]DocumentRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	TypeCounts() ([]Count, error)
	Projects() ([]Count, error)
	AllFilePaths() (map[string][]string, error)
	Count() (int, error)
	Purge() (int, error)
	Close() error
}

// Verify *DB satisfies DocumentIndex at compile time.
var _ DocumentIndex = (*DB)(nil)
