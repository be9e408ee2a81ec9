package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskDatabaseURL(t *testing.T) {
	assert.Equal(t, "postgres://app:xxxxx@db:5432/leaddesk", maskDatabaseURL("postgres://app:secret@db:5432/leaddesk"))
	assert.Equal(t, "postgres://db:5432/leaddesk", maskDatabaseURL("postgres://db:5432/leaddesk"))
	assert.Equal(t, "***", maskDatabaseURL("postgres://%zz"))
}
