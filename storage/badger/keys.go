package badger

import (
	"fmt"

	"github.com/poiesic/imagesearch/core"
)

// Key prefixes for different data types
const (
	imageDocPrefix      = "imgdoc"
	imageFileNamePrefix = "imgdocfn"
)

// makeImageDocKey generates a key for an image document by ID.
func makeImageDocKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", imageDocPrefix, id))
}

// makeFileNameKey generates a key for the file-name index.
// Format: prefix:fileName
func makeFileNameKey(fileName string) []byte {
	return []byte(imageFileNamePrefix + ":" + fileName)
}
