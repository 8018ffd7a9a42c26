package importer

import (
	"strings"
	"testing"
)

func TestSplitFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain fields",
			line: "a,b,c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "empty line is one empty field",
			line: "",
			want: []string{""},
		},
		{
			name: "trailing comma yields empty field",
			line: "a,b,",
			want: []string{"a", "b", ""},
		},
		{
			name: "leading comma yields empty field",
			line: ",b",
			want: []string{"", "b"},
		},
		{
			name: "quoted field with comma",
			line: `a,"b,c",d`,
			want: []string{"a", "b,c", "d"},
		},
		{
			name: "escaped quotes",
			line: `"say ""hi""",x`,
			want: []string{`say "hi"`, "x"},
		},
		{
			name: "quoted empty field",
			line: `a,"",c`,
			want: []string{"a", "", "c"},
		},
		{
			name: "quotes mid-field",
			line: `ab"cd",e`,
			want: []string{"abcd", "e"},
		},
		{
			name: "unterminated quote flushes final field",
			line: `a,"bc`,
			want: []string{"a", "bc"},
		},
		{
			name: "only quotes",
			line: `""""`,
			want: []string{`"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitFields(tt.line)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitFields(%q) = %q, want %q", tt.line, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("field %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

// Quoting a value and tokenizing the resulting line must recover the value
// exactly, for any mix of commas and quotes.
func TestSplitFieldsRoundTrip(t *testing.T) {
	values := []string{
		"plain",
		"",
		"with,comma",
		`with"quote`,
		`both,"of,them"`,
		`""`,
		",,,",
		`trailing quote"`,
		`"leading quote`,
	}

	for _, v := range values {
		line := QuoteField(v) + "," + QuoteField(v)
		got := SplitFields(line)
		if len(got) != 2 || got[0] != v || got[1] != v {
			t.Errorf("round trip of %q: got %q", v, got)
		}
	}
}

func TestQuoteFieldOnlyQuotesWhenNeeded(t *testing.T) {
	if got := QuoteField("plain"); got != "plain" {
		t.Errorf("QuoteField(plain) = %q, want unquoted", got)
	}
	if got := QuoteField("a,b"); !strings.HasPrefix(got, `"`) {
		t.Errorf("QuoteField(a,b) = %q, want quoted", got)
	}
}
