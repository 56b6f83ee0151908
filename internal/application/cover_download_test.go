package application

import (
	"testing"
	"time"

	"coveralchemy/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoverDownload(t *testing.T) {
	params := duneParams()
	params.Title = "The Great Gatsby"
	cover, err := domain.NewGeneratedCover(domain.NewImageReference([]byte{0x89, 'P', 'N', 'G'}), params, time.Now())
	require.NoError(t, err)

	download, err := NewCoverDownload(cover)
	require.NoError(t, err)

	assert.Equal(t, "The_Great_Gatsby_cover.png", download.Filename)
	assert.Equal(t, "image/png", download.MimeType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, download.Data)
}

func TestNewCoverDownload_InvalidReference(t *testing.T) {
	cover := domain.GeneratedCover{ID: "abc", URL: "https://example.com/cover.png", Params: duneParams()}

	_, err := NewCoverDownload(cover)
	assert.Error(t, err)
}
