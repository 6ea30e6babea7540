package llms_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaompinto/claudine/pkg/llms"
)

func TestBinaryPart(t *testing.T) {
	t.Parallel()

	data := []byte{0x89, 0x50, 0x4e, 0x47}
	part := llms.BinaryPart("image/png", data)
	assert.Equal(t, "image/png", part.MIMEType)
	assert.Equal(t, data, part.Data)

	msg := llms.MessageFromParts(llms.RoleHuman,
		llms.TextPart("what is in this image?"),
		part,
	)
	require.Len(t, msg.Parts, 2)
	assert.Equal(t, "what is in this image?", msg.GetContent())
}
