package normalize_test

import (
	"testing"

	"github.com/aretw0/minibot/internal/normalize"
	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Lowercase", "MERHABA", "merhaba"},
		{"Trim And Collapse", "  todo    liste  ", "todo liste"},
		{"Strips Punctuation", "Selam!!! nasılsın?", "selam nasılsın"},
		{"Drops Stopwords", "bir fıkra ve bir şaka", "fıkra şaka"},
		{"Stopwords Only As Words", "ananas", "ananas"},
		{"Keeps Arithmetic", "Hesapla 2+2*3", "hesapla 2+2*3"},
		{"Keeps Parentheses And Power", "hesapla (1+2)^2 % 5", "hesapla (1+2)^2 % 5"},
		{"Keeps Turkish Letters", "ÇĞÖŞÜ çğıöşü", "çğöşü çğıöşü"},
		{"Strips Quotes And Commas", `todo ekle "süt, ekmek"`, "todo ekle süt ekmek"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize.Text(tt.in))
		})
	}
}
