package scan

import (
	"strings"

	"github.com/projectlens/projectlens/internal/utils"
)

// bytesPerKilobyte converts the configured kilobyte ceiling into bytes.
const bytesPerKilobyte = 1024

// MatchesExtension reports whether fileName's suffix after the last dot,
// lowercased, is a member of the normalized extension set. Files without an
// extension never match; they can still be selected through include patterns.
func MatchesExtension(fileName string, extensions []string) bool {
	lastDotIndex := strings.LastIndex(fileName, ".")
	if lastDotIndex < 0 || lastDotIndex == len(fileName)-1 {
		return false
	}
	fileExtension := strings.ToLower(fileName[lastDotIndex+1:])
	return utils.ContainsString(extensions, fileExtension)
}

// ExceedsSizeLimit reports whether sizeBytes exceeds the configured kilobyte
// ceiling. A zero or negative ceiling means no limit is enforced.
func ExceedsSizeLimit(sizeBytes int64, maxFileSizeKB int64) bool {
	if maxFileSizeKB <= 0 {
		return false
	}
	return sizeBytes > maxFileSizeKB*bytesPerKilobyte
}
