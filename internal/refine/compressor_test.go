package refine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0-ROK/little-prince-llm/internal/llm"
)

func TestCompress_EmptyInputReturnsEmpty(t *testing.T) {
	c := NewCompressor(llm.NewMock("요약"), nil)

	assert.Equal(t, "", c.Compress(context.Background(), "질문", nil))
}

func TestCompress_UsesAtMostFivePassages(t *testing.T) {
	mock := llm.NewMock("압축된 문맥")
	c := NewCompressor(mock, nil)

	input := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"}
	out := c.Compress(context.Background(), "질문", input)

	assert.Equal(t, "압축된 문맥", out)

	require.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], "p5")
	assert.NotContains(t, mock.Prompts[0], "p6")
}

func TestCompress_CallFailureFallsBackToConcatenation(t *testing.T) {
	c := NewCompressor(llm.NewMockWithError(errors.New("outage")), nil)

	input := []string{"p1", "p2", "p3", "p4", "p5", "p6"}
	out := c.Compress(context.Background(), "질문", input)

	assert.Equal(t, strings.Join(input[:5], "\n\n"), out)
}

func TestCompress_EmptyCompletionFallsBackToConcatenation(t *testing.T) {
	c := NewCompressor(llm.NewMock("  \n"), nil)

	out := c.Compress(context.Background(), "질문", []string{"p1", "p2"})

	assert.Equal(t, "p1\n\np2", out)
	assert.NotEmpty(t, out)
}
