// Package recipients validates and parses the addresses a comparison report is sent to.
//
// Parsing is coarse: comma-separated input is split, trimmed, and entries without
// an "@" are dropped. Validation is strict and runs over every non-empty entry the
// caller supplied, so a malformed address fails the request instead of being
// silently discarded.
package recipients

import (
	"regexp"
	"strings"

	dErrors "quotedesk/pkg/domain-errors"
	pstrings "quotedesk/pkg/platform/strings"
)

const (
	MsgRecipientRequired = "Recipient email is required"
	MsgRecipientInvalid  = "Please enter a valid recipient email"
	MsgCopyInvalid       = "Please enter valid email addresses"
)

var addressPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Valid reports whether addr looks like local@domain.tld.
func Valid(addr string) bool {
	return addressPattern.MatchString(addr)
}

// Parse splits a comma-separated list, trims entries and keeps only those containing "@".
func Parse(list string) []string {
	return coarse(pstrings.SplitAndTrim(list, ","))
}

// ParseAll applies Parse to every element and concatenates the results in order.
func ParseAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, Parse(v)...)
	}
	return out
}

// Validate checks the recipient and every CC/BCC entry. One bad address fails the whole set.
func Validate(recipient string, cc, bcc []string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return dErrors.New(dErrors.CodeBadRequest, MsgRecipientRequired)
	}
	if !Valid(recipient) {
		return dErrors.New(dErrors.CodeBadRequest, MsgRecipientInvalid)
	}
	for _, list := range [][]string{cc, bcc} {
		for _, v := range list {
			for _, addr := range pstrings.SplitAndTrim(v, ",") {
				if !Valid(addr) {
					return dErrors.New(dErrors.CodeBadRequest, MsgCopyInvalid)
				}
			}
		}
	}
	return nil
}

func coarse(entries []string) []string {
	out := entries[:0]
	for _, e := range entries {
		if strings.Contains(e, "@") {
			out = append(out, e)
		}
	}
	return out
}
