package ble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWritable(t *testing.T) {
	tests := []struct {
		uuid string
		want bool
	}{
		{"00002af1-0000-1000-8000-00805f9b34fb", true},
		{"0000ff02-0000-1000-8000-00805f9b34fb", true},
		{"00002a00-0000-1000-8000-00805f9b34fb", false}, // device name
		{"00002a29-0000-1000-8000-00805f9b34fb", false}, // manufacturer name
		{"00002A19-0000-1000-8000-00805F9B34FB", false},
		{"bef8d6c9-9c21-4c9e-b632-bd58c1009f9f", true},
		{"49535343-8841-43f4-a8d4-ecbe34729bb3", true},
	}

	for _, tt := range tests {
		t.Run(tt.uuid, func(t *testing.T) {
			assert.Equal(t, tt.want, Writable(tt.uuid))
		})
	}
}
