package validate

import "sort"

// UserFields is the allow-list of request body fields recognized by the user
// write operations.
var UserFields = []string{"name", "age", "email", "password"}

// Sanitize filters body down to the allowed keys and returns the filtered
// copy along with a sorted list of any unknown keys that were present.
// Callers must reject the request when extras is non-empty, before running
// any field-level validation.
func Sanitize(body map[string]any, allowed ...string) (map[string]any, []string) {
	allow := make(map[string]struct{}, len(allowed))
	for _, k := range allowed {
		allow[k] = struct{}{}
	}

	clean := make(map[string]any, len(body))
	var extras []string
	for k, v := range body {
		if _, ok := allow[k]; ok {
			clean[k] = v
		} else {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)

	return clean, extras
}
