package ports

// Verifier checks files a previous restore left behind.
//
//go:generate mockgen -source=verifier.go -destination=mocks/mock_verifier.go -package=mocks
type Verifier interface {
	// FilesExist reports whether every path exists.
	FilesExist(paths []string) (bool, error)
}
