package utils

import "strings"

// ShortName extracts the last segment after "/" from an ARN or path.
// Permission set ARNs flatten to their ps-... id. Returns the input
// unchanged if no "/" is found.
func ShortName(arn string) string {
	if parts := strings.Split(arn, "/"); len(parts) > 1 {
		return parts[len(parts)-1]
	}
	return arn
}
