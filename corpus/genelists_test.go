package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGeneLists(t *testing.T) {
	lists, err := LoadGeneLists([]byte(`
version: test
kinases:
  - BRAF
  - MAP2K1
phosphatases:
  - PTEN
transcription_factors:
  - TP53
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"BRAF", "MAP2K1"}, lists.Kinases)
	assert.Equal(t, []string{"PTEN"}, lists.Phosphatases)
	assert.Equal(t, []string{"TP53"}, lists.TranscriptionFactors)

	_, err = LoadGeneLists([]byte("kinases: {"))
	require.Error(t, err)
}

func TestDefaultGeneLists(t *testing.T) {
	lists, err := DefaultGeneLists()
	require.NoError(t, err)

	assert.Contains(t, lists.Kinases, "MAP2K1")
	assert.Contains(t, lists.Phosphatases, "PTEN")
	assert.Contains(t, lists.TranscriptionFactors, "TP53")
	assert.NotContains(t, lists.Kinases, "TP53")

	again, err := DefaultGeneLists()
	require.NoError(t, err)
	assert.Same(t, lists, again)
}
