package analyzer

import (
	"reflect"
	"testing"
)

func TestTokenizeLiteral(t *testing.T) {
	tok := NewTokenizer()

	cases := []struct {
		input string
		want  []string
	}{
		{"My domain was SUSPENDED!", []string{"my", "domain", "was", "suspended"}},
		{"whois-verification (15 days)", []string{"whois", "verification", "15", "days"}},
		{"", nil},
		{"...", nil},
		{"domains domain", []string{"domains", "domain"}}, // no stemming
	}

	for _, c := range cases {
		got := tok.Tokenize(c.input)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}
