// Copyright (c) 2024 privateLINE, LLC.

package helpers

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var AccountIdRegex = regexp.MustCompile("^a-([1-9A-HJ-NP-Z]{4}-){2}[1-9A-HJ-NP-Z]{4}$")

func IsAValidAccountID(accountID string) bool {
	return AccountIdRegex.MatchString(accountID)
}

// IsAnEmail is a loose check: login accepts either an e-mail or an account ID
func IsAnEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}

func CapitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
