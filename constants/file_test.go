package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapExtToFormat(t *testing.T) {
	tests := []struct {
		ext  string
		want Format
	}{
		{".txt", FormatTXT},
		{"TEXT", FormatTXT},
		{".JPG", FormatImage},
		{"jpeg", FormatImage},
		{".png", FormatImage},
		{".pdf", FormatPDF},
		{".docx", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			assert.Equal(t, tt.want, MapExtToFormat(tt.ext))
		})
	}
}

func TestIsSupportedExt(t *testing.T) {
	assert.True(t, IsSupportedExt(".pdf"))
	assert.True(t, IsSupportedExt("Txt"))
	assert.False(t, IsSupportedExt(".csv"))
	assert.False(t, IsSupportedExt(""))
}
