package pdf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docflow/internal/translation/pdf/pdftest"
	dErrors "docflow/pkg/domain-errors"
)

func TestInspect(t *testing.T) {
	inspector := NewInspector(0)

	t.Run("counts pages of a valid PDF", func(t *testing.T) {
		info, err := inspector.Inspect(pdftest.Minimal(3))
		require.NoError(t, err)
		assert.Equal(t, 3, info.PageCount)
	})

	t.Run("rejects non-PDF content", func(t *testing.T) {
		_, err := inspector.Inspect([]byte("GIF89a not a pdf"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects empty file", func(t *testing.T) {
		_, err := inspector.Inspect(nil)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("rejects truncated PDF", func(t *testing.T) {
		_, err := inspector.Inspect([]byte("%PDF-1.4\n1 0 obj\n"))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("enforces size limit", func(t *testing.T) {
		small := NewInspector(16)
		_, err := small.Inspect(bytes.Repeat([]byte("x"), 17))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds")
	})
}
