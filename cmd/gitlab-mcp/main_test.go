package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCmd  string
		wantArgs []string
	}{
		{"no arguments serves", nil, cmdServe, nil},
		{"explicit serve", []string{"serve", "--port", "9000"}, cmdServe, []string{"--port", "9000"}},
		{"flags only serve", []string{"--read-only"}, cmdServe, []string{"--read-only"}},
		{"transport flag serves", []string{"--transport", "sse"}, cmdServe, []string{"--transport", "sse"}},
		{"help word", []string{"help"}, cmdHelp, nil},
		{"help flag", []string{"-h"}, cmdHelp, nil},
		{"version flag", []string{"--version"}, cmdVersion, nil},
		{"version word", []string{"version"}, cmdVersion, nil},
		{"unknown word", []string{"update"}, "update", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := parseCommand(tt.args)
			assert.Equal(t, tt.wantCmd, cmd)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
