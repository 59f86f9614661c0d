package validators

import "time"

// IsValidDateOfBirth accepts an empty value or a YYYY-MM-DD date. Anything
// else is rejected at the boundary rather than stored and silently treated
// as "no age" forever.
func IsValidDateOfBirth(dob string) bool {
	if dob == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", dob)
	return err == nil
}
