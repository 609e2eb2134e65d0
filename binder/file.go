package binder

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/textproto"
	"path"
	"path/filepath"
	"strings"
)

// FileUpload is a file part read fully into memory.
type FileUpload struct {
	// Filename is the name supplied by the client, without directories.
	Filename string
	Size     int64
	Header   textproto.MIMEHeader
	Content  []byte
}

// ContentType returns the part's media type, falling back to the type
// implied by the file extension.
func (f *FileUpload) ContentType() string {
	if ct := f.Header.Get("Content-Type"); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			return mediaType
		}
	}
	if ct := mime.TypeByExtension(filepath.Ext(f.Filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Reader returns a reader over the content.
func (f *FileUpload) Reader() io.Reader {
	return bytes.NewReader(f.Content)
}

func (f *FileUpload) String() string {
	return fmt.Sprintf("%s (%d bytes)", f.Filename, f.Size)
}

// cleanFilename strips any directory components a client may send.
func cleanFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	switch name {
	case "/", ".", "..":
		return ""
	}
	return name
}
