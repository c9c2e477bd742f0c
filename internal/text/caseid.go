package text

import "regexp"

// caseIDRegex accepts HL2024-0001, hl 2024 0001, HL-2024-00012 and similar spellings.
var caseIDRegex = regexp.MustCompile(`(?i)HL[-_. ]?(\d{4})[-_. ]?(\d{4,})`)

// ExtractCaseID finds a case reference in free text and returns it in canonical
// HL-YYYY-NNNN form.
func ExtractCaseID(s string) (string, bool) {
	m := caseIDRegex.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	year, serial := m[1], m[2]
	if len(year)+len(serial) < 8 {
		return "", false
	}
	return "HL-" + year + "-" + serial, true
}
