package age

import "time"

const dobLayout = "2006-01-02"

// FromDOB derives a patient's age in whole years from a YYYY-MM-DD date of
// birth. Age is never stored; it is recomputed at read time.
//
// Returns nil when the date is empty, malformed, or in the future relative
// to today.
func FromDOB(dateOfBirth string, today time.Time) *int {
	if dateOfBirth == "" {
		return nil
	}

	dob, err := time.Parse(dobLayout, dateOfBirth)
	if err != nil {
		return nil
	}

	if dob.After(today) {
		return nil
	}

	years := today.Year() - dob.Year()

	// Birthday not reached yet this year.
	if today.Month() < dob.Month() ||
		(today.Month() == dob.Month() && today.Day() < dob.Day()) {
		years--
	}

	return &years
}
