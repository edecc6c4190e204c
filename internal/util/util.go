// Package util holds small formatting helpers shared by infra loaders.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Checksum returns the hex SHA256 of data.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:])
}

// ShortChecksum is the first 12 hex characters of Checksum, enough to tell seed revisions apart in logs.
func ShortChecksum(data []byte) string {
	return Checksum(data)[:12]
}

// FormatBytes formats bytes into human readable format.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	const units = "KMGTPEZY"
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < len(units)-1; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), units[exp])
}
