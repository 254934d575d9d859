package models

// FileUpload is a binary payload handed in by a caller together with its original file name.
type FileUpload struct {
	Name string
	Data []byte
}

// Present reports whether a file was supplied. A zero-byte file still counts.
func (f *FileUpload) Present() bool {
	return f != nil
}
