package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gobqlint/pkg/lint"
)

type logicalCase struct {
	name string
	src  string
	want []string
}

func runLogical(t *testing.T, newRule func() lint.Rule, tests []logicalCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := positions(checkSource(t, newRule(), tt.src))
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtraneousWhitespaceRule(t *testing.T) {
	t.Parallel()

	runLogical(t, func() lint.Rule { return NewExtraneousWhitespaceRule() }, []logicalCase{
		{name: "after open paren", src: "SELECT f( a)\n", want: []string{"1:10:E E201 whitespace after '('"}},
		{name: "before close paren", src: "SELECT f(a )\n", want: []string{"1:11:E E202 whitespace before ')'"}},
		{name: "before comma", src: "SELECT a , b\n", want: []string{"1:9:E E203 whitespace before ','"}},
		{name: "first finding only", src: "SELECT f( a, b )\n", want: []string{"1:10:E E201 whitespace after '('"}},
		{name: "trailing comma", src: "SELECT f(a, )\n"},
		{name: "clean", src: "SELECT f(a[1], b)\n"},
		{name: "inside string", src: "SELECT 'a , b'\n"},
		{name: "bracket at line end", src: "SELECT f(\n  a\n)\n"},
		{
			name: "second physical line",
			src:  "SELECT a,\n  b , c\n",
			want: []string{"2:4:E E203 whitespace before ','"},
		},
		{
			name: "two statements on one line",
			src:  "SELECT a ;SELECT b ,c\n",
			want: []string{
				"1:9:E E203 whitespace before ';'",
				"1:19:E E203 whitespace before ','",
			},
		},
	})
}

func TestWhitespaceAroundOperatorRule(t *testing.T) {
	t.Parallel()

	runLogical(t, func() lint.Rule { return NewWhitespaceAroundOperatorRule() }, []logicalCase{
		{name: "spaces before", src: "SELECT a  = b\n", want: []string{"1:9:E E221 multiple spaces before operator"}},
		{name: "spaces after", src: "SELECT a =  b\n", want: []string{"1:11:E E222 multiple spaces after operator"}},
		{name: "tab before", src: "SELECT a\t= b\n", want: []string{"1:9:E E223 tab before operator"}},
		{name: "tab after", src: "SELECT a =\tb\n", want: []string{"1:11:E E224 tab after operator"}},
		{name: "single spaces", src: "SELECT a = b\n"},
		{name: "two character operator", src: "SELECT a <>  b\n", want: []string{"1:12:E E222 multiple spaces after operator"}},
		{name: "not an operator", src: "SELECT a,  b\n"},
		{name: "inside string", src: "SELECT 'a  = b'\n"},
		{name: "inline comment after operator", src: "SELECT a = /* c */ b;\n"},
		{name: "inline comment before operator", src: "SELECT a /* c */ = b;\n"},
	})
}

func TestMissingWhitespaceRule(t *testing.T) {
	t.Parallel()

	runLogical(t, func() lint.Rule { return NewMissingWhitespaceRule() }, []logicalCase{
		{name: "comma", src: "SELECT a,b\n", want: []string{"1:9:E E231 missing whitespace after ','"}},
		{name: "spaced comma", src: "SELECT a, b\n"},
		{name: "trailing comma in call", src: "SELECT f(a,)\n"},
		{name: "trailing comma in array", src: "SELECT [1,]\n"},
		{name: "inside string", src: "SELECT 'a,b'\n"},
		{name: "comma at line end", src: "SELECT a,\n  b\n"},
	})
}

func TestWhitespaceAfterCommaRule(t *testing.T) {
	t.Parallel()

	runLogical(t, func() lint.Rule { return NewWhitespaceAfterCommaRule() }, []logicalCase{
		{name: "two spaces", src: "SELECT a,  b\n", want: []string{"1:10:E E241 multiple spaces after ','"}},
		{name: "tab", src: "SELECT a,\tb\n", want: []string{"1:10:E E242 tab after ','"}},
		{name: "single space", src: "SELECT a, b\n"},
	})
}
