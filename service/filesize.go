package service

import "fmt"

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize renders a byte length as a human-readable size label.
// Below 1024 the raw count is shown with no decimals; above, the value is
// divided down the unit ladder and shown with two decimals. The ladder stops
// at GB: anything at or past 1024 GB stays in GB.
func FormatFileSize(sizeInBytes int64) string {
	const factor = 1024

	if sizeInBytes < factor {
		return fmt.Sprintf("%d %s", sizeInBytes, sizeUnits[0])
	}

	size := float64(sizeInBytes)
	unit := sizeUnits[0]
	for _, nextUnit := range sizeUnits[1:] {
		if size >= factor {
			size /= factor
			unit = nextUnit
		} else {
			break
		}
	}

	return fmt.Sprintf("%.2f %s", size, unit)
}
