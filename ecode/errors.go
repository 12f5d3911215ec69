package ecode

import "strings"

// phrase joins the subject and the state, dropping empty parts.
func phrase(state string, subject []string) string {
	parts := make([]string, 0, len(subject)+1)
	for _, s := range subject {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(append(parts, state), " ")
}

// FieldIsRequired returns "<field> required".
func FieldIsRequired(field ...string) string { return phrase("required", field) }

// FieldIsInvalid returns "<field> invalid".
func FieldIsInvalid(field ...string) string { return phrase("invalid", field) }

// Failed returns "<operation> failed".
func Failed(op ...string) string { return phrase("failed", op) }

// NotExist returns "<subject> does not exist".
func NotExist(subject ...string) string { return phrase("does not exist", subject) }

// Unavailable returns "<backend> unavailable".
func Unavailable(backend ...string) string { return phrase("unavailable", backend) }
