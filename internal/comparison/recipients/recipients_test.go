package recipients

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "quotedesk/pkg/domain-errors"
)

func TestValid(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"a@b.com", true},
		{"first.last+tag@sub.example.co", true},
		{"bad-email", false},
		{"a@b", false},
		{"@b.com", false},
		{"a@.com", false},
		{"a b@c.com", false},
		{"a@b.com ", false},
		{"a@@b.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.addr))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: []string{}},
		{name: "trims and keeps order", in: " b@y.com ,a@x.com", want: []string{"b@y.com", "a@x.com"}},
		{name: "drops entries without at", in: "x@y.com, not-an-email", want: []string{"x@y.com"}},
		{name: "drops empties", in: ",, x@y.com ,", want: []string{"x@y.com"}},
		{name: "keeps coarse matches for strict check", in: "x@y", want: []string{"x@y"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestParseNeverYieldsUntrimmedOrAtFreeTokens(t *testing.T) {
	inputs := []string{
		"  a@b.com  ,   c@d.com",
		"plain, spaced out ,\t@,x@y.z\n",
		" , , ",
		"one@two.three,four,five@six.seven",
	}
	for _, in := range inputs {
		for _, entry := range Parse(in) {
			assert.Equal(t, strings.TrimSpace(entry), entry)
			assert.Contains(t, entry, "@")
		}
	}
}

func TestParseAll(t *testing.T) {
	got := ParseAll([]string{"a@x.com, b@y.com", " ", "nope", "c@z.com"})
	assert.Equal(t, []string{"a@x.com", "b@y.com", "c@z.com"}, got)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		recipient string
		cc        []string
		bcc       []string
		wantMsg   string
	}{
		{name: "valid with copies", recipient: "a@b.com", cc: []string{"x@y.com"}, bcc: []string{"z@w.org"}},
		{name: "valid without copies", recipient: "a@b.com"},
		{name: "blank entries ignored", recipient: "a@b.com", cc: []string{"", "  "}},
		{name: "missing recipient", recipient: "  ", wantMsg: MsgRecipientRequired},
		{name: "recipient without at", recipient: "bad-email", wantMsg: MsgRecipientInvalid},
		{name: "recipient without tld", recipient: "a@b", wantMsg: MsgRecipientInvalid},
		{name: "cc entry rejected by strict check", recipient: "a@b.com", cc: []string{"x@y.com, not-an-email"}, wantMsg: MsgCopyInvalid},
		{name: "bcc entry rejected", recipient: "a@b.com", bcc: []string{"x@y"}, wantMsg: MsgCopyInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.recipient, tt.cc, tt.bcc)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
			assert.Equal(t, tt.wantMsg, dErrors.MessageOf(err))
		})
	}
}

func TestValidateRejectsEveryRecipientWithoutAt(t *testing.T) {
	for _, r := range []string{"bad-email", "nobody", "a.b.c", "x y z"} {
		assert.Error(t, Validate(r, nil, nil), r)
	}
}
