// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import "strings"

var commonSequences = []string{"1234", "1111", "0000", "qwerty"}

// warnings lists improvement hints for a password. They are advice for the user and do not change the
// score.
func warnings(password string, length, classes int) []string {
	w := make([]string, 0, 4)

	switch {
	case length == 0:
		return w
	case length < 8:
		w = append(w, "Password is short. Aim for at least 12 to 14 characters.")
	case length < 12:
		w = append(w, "Consider using 12 or more characters for stronger security.")
	}

	switch classes {
	case 1:
		w = append(w, "Add upper case letters, lower case letters, digits and symbols for better complexity.")
	case 2:
		w = append(w, "Add more character types (upper case, lower case, digits or symbols).")
	}

	lower := strings.ToLower(password)
	if strings.Contains(lower, "password") {
		w = append(w, "Avoid using the word 'password' or obvious phrases.")
	}

	for _, seq := range commonSequences {
		if strings.Contains(lower, seq) {
			w = append(w, "Avoid common patterns like 1234, 1111, 0000 or qwerty.")
			break
		}
	}

	return w
}
