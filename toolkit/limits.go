package toolkit

import (
	"fmt"
	"os"
)

// ensureFileSize fails if the file at path is larger than maxSize bytes.
// A maxSize of zero or less means no limit. Stat failures are ignored here
// and left for the subsequent load to classify.
func ensureFileSize(path string, maxSize int) error {
	if maxSize <= 0 {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if info.Size() > int64(maxSize) {
		return fmt.Errorf("file size %d exceeds the maximum of %d bytes", info.Size(), maxSize)
	}
	return nil
}
