package session

import (
	"time"

	"github.com/yildizm/LeafScan/internal/predict"
	"github.com/yildizm/LeafScan/internal/theme"
)

// File is a selected image and its metadata
type File struct {
	Name string
	Path string
	Size int64
	Type string // MIME type
	Data []byte
}

// Upload is the current selection with its local renderings
type Upload struct {
	File    *File
	Preview string // data URL, or file:// reference when no thumbnail could be built
	Cropped string // data URL of the last crop snapshot
}

// State is a read-only copy of the session used for rendering
type State struct {
	Upload      Upload
	UploadCount int
	Prediction  *predict.Result
	History     []predict.Result

	Loading     bool
	Error       string
	Progress    int
	Celebrating bool
	Notice      string

	DarkMode bool
	Palette  theme.Palette
	Tip      string

	// Generation changes whenever the selection is replaced or cleared
	Generation uint64
}

// HasFile reports whether an image is selected
func (s State) HasFile() bool {
	return s.Upload.File != nil
}

// notice is a transient acknowledgement with an expiry
type notice struct {
	text  string
	until time.Time
}
