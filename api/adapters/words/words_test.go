package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywords(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  []string
	}{
		{"empty", "", []string{}},
		{"only punctuation", "!!! ...", []string{}},
		{"stop words and stems", "The Rising of the Shield Hero", []string{"rise", "shield", "hero"}},
		{"duplicates", "Hero hero HERO", []string{"hero"}},
		{"digits kept", "86 -Six-", []string{"86", "six"}},
		{"japanese kept", "無職転生 Mushoku", []string{"無職転生", "mushoku"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Keywords(tc.title))
		})
	}
}
