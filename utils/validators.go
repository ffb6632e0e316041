package utils

import (
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var bibNumberRegex = regexp.MustCompile(`^[0-9]{4}$`)

var ageCategories = []string{"below 18", "18-35", "36-50", "50-60", "above 60"}

func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidBibNumber accepts the 4-digit race identifier
func IsValidBibNumber(bib string) bool {
	return bibNumberRegex.MatchString(bib)
}

func IsValidAgeCategory(category string) bool {
	for _, c := range ageCategories {
		if c == category {
			return true
		}
	}
	return false
}
