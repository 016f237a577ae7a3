// Package probes implements the concrete data sources of the panel. Each
// probe runs its command through a sysexec.Runner, parses the output with a
// pure function and reports one probe.Result per state field it owns.
package probes

import "strings"

// joinSep separates multiple names within one field.
const joinSep = " | "

// dedupe drops repeated and empty entries, preserving first-seen order.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// lines splits command output into lines, tolerating CRLF.
func lines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
