package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "Hello, "},
			{Type: "tool_use", Text: "ignored"},
			{Type: "text", Text: "world."},
		},
	}
	assert.Equal(t, "Hello, world.", resp.Text())
}

func TestMessageResponse_Text_Empty(t *testing.T) {
	assert.Empty(t, (&MessageResponse{}).Text())
}

func TestToSDKMessages_Roles(t *testing.T) {
	out := toSDKMessages([]Message{
		{Role: "user", Content: "question"},
		{Role: "assistant", Content: "answer"},
	})
	assert.Len(t, out, 2)
	assert.Equal(t, "user", string(out[0].Role))
	assert.Equal(t, "assistant", string(out[1].Role))
}
