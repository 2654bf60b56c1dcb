package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-a", "http://api:3000", "-x", "1"},
			allowed: []string{"-a"},
			want:    []string{"-a", "http://api:3000"},
		},
		{
			name:    "equals form",
			args:    []string{"-p=20", "browse"},
			allowed: []string{"-p"},
			want:    []string{"-p=20"},
		},
		{
			name:    "flag without value followed by another flag",
			args:    []string{"-d", "-p", "5"},
			allowed: []string{"-d", "-p"},
			want:    []string{"-d", "-p", "5"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"--verbose", "positional"},
			allowed: []string{"-c"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "a.json", ConfigFileFlag([]string{"-c", "a.json", "-a", "x"}))
	assert.Equal(t, "b.yaml", ConfigFileFlag([]string{"browse", "-config=b.yaml"}))
	assert.Equal(t, "c.yml", ConfigFileFlag([]string{"--config", "c.yml"}))
	assert.Equal(t, "", ConfigFileFlag([]string{"-a", "x"}))
}
