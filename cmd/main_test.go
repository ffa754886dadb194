package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepoDirFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"separate value", []string{"--repo", "/src/api", "plan"}, "/src/api"},
		{"equals form", []string{"--debug", "--repo=/src/api", "data"}, "/src/api"},
		{"short alias", []string{"-C", "../web", "promote"}, "../web"},
		{"after subcommand is ignored", []string{"create", "--repo", "/x"}, ""},
		{"missing value", []string{"--repo"}, ""},
		{"no flags", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repoDirFromArgs(tt.args))
		})
	}
}
