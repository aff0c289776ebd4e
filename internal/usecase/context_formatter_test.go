package usecase_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cisnr-assistant/internal/domain"
	"cisnr-assistant/internal/usecase"
)

func TestFormatDocuments_Empty(t *testing.T) {
	out, err := usecase.FormatDocuments(nil)
	require.NoError(t, err)
	assert.Equal(t, "", out)

	out, err = usecase.FormatDocuments([]domain.Document{})
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestFormatDocuments_SingleWithMetadata(t *testing.T) {
	docs := []domain.Document{
		{
			Content: "  CISNR conducts research in intelligent systems.  \n",
			Metadata: map[string]any{
				"source": "about.md",
				"score":  0.912,
			},
		},
	}

	out, err := usecase.FormatDocuments(docs)
	require.NoError(t, err)
	assert.Equal(t, "Document 1:\nCISNR conducts research in intelligent systems.\n[Source: about.md | Score: 0.912]", out)
}

func TestFormatDocuments_MetadataAbsentOmitsAnnotation(t *testing.T) {
	docs := []domain.Document{
		{Content: "Plain passage."},
		{Content: "Another passage.", Metadata: map[string]any{"source": "b.md", "score": 0.5}},
	}

	out, err := usecase.FormatDocuments(docs)
	require.NoError(t, err)

	blocks := strings.Split(out, "\n\n")
	require.Len(t, blocks, 2)
	assert.Equal(t, "Document 1:\nPlain passage.", blocks[0])
	assert.Equal(t, "Document 2:\nAnother passage.\n[Source: b.md | Score: 0.500]", blocks[1])
}

func TestFormatDocuments_PreservesOrderUpToTopK(t *testing.T) {
	for n := 0; n <= 6; n++ {
		docs := make([]domain.Document, 0, n)
		for i := 0; i < n; i++ {
			docs = append(docs, domain.Document{Content: fmt.Sprintf("passage %d", i)})
		}

		out, err := usecase.FormatDocuments(docs)
		require.NoError(t, err)

		assert.Equal(t, n, strings.Count(out, "Document "), "n=%d", n)
		for i := 0; i < n; i++ {
			header := fmt.Sprintf("Document %d:\npassage %d", i+1, i)
			assert.Contains(t, out, header, "n=%d", n)
		}
		if n > 1 {
			first := strings.Index(out, "Document 1:")
			last := strings.Index(out, fmt.Sprintf("Document %d:", n))
			assert.Less(t, first, last)
		}
	}
}

func TestFormatDocuments_MissingSourceDefaultsToUnknown(t *testing.T) {
	docs := []domain.Document{
		{Content: "x", Metadata: map[string]any{"score": 0.25}},
	}

	out, err := usecase.FormatDocuments(docs)
	require.NoError(t, err)
	assert.Contains(t, out, "[Source: unknown | Score: 0.250]")
}

func TestFormatDocuments_MissingScoreOmitsScorePortion(t *testing.T) {
	docs := []domain.Document{
		{Content: "x", Metadata: map[string]any{"source": "a.md"}},
	}

	out, err := usecase.FormatDocuments(docs)
	require.NoError(t, err)
	assert.Contains(t, out, "[Source: a.md]")
	assert.NotContains(t, out, "Score:")
}

func TestFormatDocuments_NumericScoreTypes(t *testing.T) {
	cases := []struct {
		score any
		want  string
	}{
		{float64(0.9115), "0.912"},
		{float32(0.5), "0.500"},
		{int(1), "1.000"},
		{int64(0), "0.000"},
		{json.Number("0.875"), "0.875"},
	}
	for _, tc := range cases {
		docs := []domain.Document{
			{Content: "x", Metadata: map[string]any{"source": "a.md", "score": tc.score}},
		}
		out, err := usecase.FormatDocuments(docs)
		require.NoError(t, err, "score=%v", tc.score)
		assert.Contains(t, out, "Score: "+tc.want+"]", "score=%v", tc.score)
	}
}

func TestFormatDocuments_NonNumericScoreFails(t *testing.T) {
	docs := []domain.Document{
		{Content: "x", Metadata: map[string]any{"source": "a.md", "score": "N/A"}},
	}

	_, err := usecase.FormatDocuments(docs)
	require.Error(t, err)
	assert.ErrorIs(t, err, usecase.ErrNonNumericScore)
	assert.Contains(t, err.Error(), "document 1")
}
