package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeScan(t *testing.T) {
	given := &ScanRequest{JobID: "abc", Host: "cluster-a", RemoteJobID: "4821"}

	data, err := encodeScan(given)
	assert.Nil(t, err)

	result, err := decodeScan(data)

	assert.Nil(t, err)
	assert.Equal(t, given, result)
}

func TestDecodeScanRejectsIncomplete(t *testing.T) {
	cases := []struct {
		Name  string
		Given []byte
	}{
		{"NotJson", []byte("not-json")},
		{"MissingJobID", []byte(`{"host":"cluster-a"}`)},
		{"MissingHost", []byte(`{"job_id":"abc"}`)},
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			result, err := decodeScan(c.Given)

			assert.Nil(t, result)
			assert.NotNil(t, err)
		})
	}
}
