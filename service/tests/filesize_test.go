package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zlnvch/markwiki/service"
)

func TestFormatFileSize(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{1, "1 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024*1024 - 1, "1024.00 KB"},
		{1024 * 1024, "1.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		// GB is the largest unit; bigger sizes stay in GB
		{1024 * 1024 * 1024 * 1024, "1024.00 GB"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, service.FormatFileSize(tc.size), "size %d", tc.size)
	}
}
