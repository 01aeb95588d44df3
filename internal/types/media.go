package types

// FileState is the processing state of a file in vendor storage.
type FileState int

const (
	FileProcessing FileState = iota
	FileActive
	FileFailed
)

func (s FileState) String() string {
	switch s {
	case FileActive:
		return "ACTIVE"
	case FileFailed:
		return "FAILED"
	default:
		return "PROCESSING"
	}
}

// RemoteFile is a transient handle to a file uploaded to the
// generative vendor's storage. The analyzer owns it for the duration
// of one analysis call and deletes it afterwards.
type RemoteFile struct {
	Name     string
	URI      string
	MIMEType string
	State    FileState
}
