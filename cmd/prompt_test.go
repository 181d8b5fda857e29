package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		c := newPromptConfirmer(strings.NewReader(tt.input), &out)
		assert.Equal(t, tt.want, c.Confirm(context.Background(), "Remove this lead?"), "input %q", tt.input)
		assert.Contains(t, out.String(), "Remove this lead? [y/N]")
	}
}

func TestWriterNotifier(t *testing.T) {
	var out bytes.Buffer
	writerNotifier{w: &out}.Notify("Lead added to CRM!")
	assert.Equal(t, "» Lead added to CRM!\n", out.String())
}
