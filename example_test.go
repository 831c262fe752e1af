package viewset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExamplesRun(t *testing.T) {
	assert.NotPanics(t, ExampleUsage)
	assert.NotPanics(t, ExampleCustomViewSet)
}
