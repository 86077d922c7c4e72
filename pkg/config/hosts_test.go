package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testHostsYaml = `
hosts:
  - name: cluster-a
    address: login.cluster-a.example.com
    user: mluser
    key_path: ~/.ssh/id_ed25519
    workspace: /scratch/mluser/jobs
    allowed_partitions: [gpu, cpu]
    allowed_gpu_types: [A6000, H100]
  - name: cluster-b
    address: 10.1.0.5:2222
    user: mluser
    workspace: /home/mluser/jobs
    requires_tunnel: true
`

func TestParseHosts(t *testing.T) {
	hs, err := parseHosts([]byte(testHostsYaml))

	assert.Nil(t, err)
	assert.Equal(t, 2, len(hs.All()))

	a := hs.Get("cluster-a")
	assert.NotNil(t, a)
	assert.Equal(t, "login.cluster-a.example.com", a.Address)
	assert.Equal(t, "mluser", a.User)
	assert.Equal(t, []string{"gpu", "cpu"}, a.AllowedPartitions)
	assert.False(t, a.RequiresTunnel)

	b := hs.Get("cluster-b")
	assert.NotNil(t, b)
	assert.True(t, b.RequiresTunnel)

	assert.Nil(t, hs.Get("nope"))
}

func TestParseHostsRejectsBadConfig(t *testing.T) {
	cases := []struct {
		Name  string
		Given string
	}{
		{"NotYaml", "::not yaml::"},
		{"NoHosts", "hosts: []\n"},
		{"Empty", ""},
		{"EmptyName", "hosts:\n  - address: x\n    user: y\n"},
		{"MissingAddress", "hosts:\n  - name: a\n    user: y\n"},
		{"MissingUser", "hosts:\n  - name: a\n    address: x\n"},
		{"Duplicate", "hosts:\n  - name: a\n    address: x\n    user: y\n  - name: a\n    address: z\n    user: y\n"},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			result, err := parseHosts([]byte(c.Given))

			assert.Nil(t, result)
			assert.NotNil(t, err)
		})
	}
}
