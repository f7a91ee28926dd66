package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/matheus3301/localchat/internal/model"
	"github.com/spf13/afero"
)

var (
	// ErrTooLarge means the file exceeds the attachment limit.
	ErrTooLarge = errors.New("file is too large to attach")
	// ErrNotFile means the path names a directory or something other than a file.
	ErrNotFile = errors.New("not a regular file")
	// ErrNoPath means no path was given.
	ErrNoPath = errors.New("no file selected")
)

// Attachment is a file turned into an inline message payload.
type Attachment struct {
	Name    string
	MIME    string
	Type    model.MessageType
	Size    int64
	DataURL string
}

// Loader reads attachments from a filesystem.
type Loader struct {
	fs       afero.Fs
	maxBytes int64
}

// NewLoader creates a loader reading from fs. maxBytes <= 0 disables the limit.
func NewLoader(fs afero.Fs, maxBytes int64) *Loader {
	return &Loader{fs: fs, maxBytes: maxBytes}
}

// Load reads path and encodes it as a data URL.
func (l *Loader) Load(path string) (*Attachment, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, ErrNoPath
	}

	info, err := l.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFile)
	}
	if l.maxBytes > 0 && info.Size() > l.maxBytes {
		return nil, fmt.Errorf("%s is %d bytes, limit %d: %w", path, info.Size(), l.maxBytes, ErrTooLarge)
	}

	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	mime := mediaType(mimetype.Detect(data).String())
	return &Attachment{
		Name:    filepath.Base(path),
		MIME:    mime,
		Type:    MessageType(mime),
		Size:    int64(len(data)),
		DataURL: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// MessageType maps a media type to the message kind used to display it.
func MessageType(mime string) model.MessageType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return model.MessageImage
	case strings.HasPrefix(mime, "video/"):
		return model.MessageVideo
	default:
		return model.MessageFile
	}
}

// mediaType drops parameters such as charset.
func mediaType(s string) string {
	base, _, _ := strings.Cut(s, ";")
	return strings.TrimSpace(base)
}
