package signpost

import "net/url"

const LogMaskVal = "xxxxxx"

// Mask replaces every value of key in vals with [LogMaskVal],
// returning a copy so the caller's values are left untouched.
func Mask(vals url.Values, key string) url.Values {
	masked := make(url.Values, len(vals))
	for k, v := range vals {
		if k == key {
			masked[k] = []string{LogMaskVal}
			continue
		}

		masked[k] = append([]string(nil), v...)
	}

	return masked
}
