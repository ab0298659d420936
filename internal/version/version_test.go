package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info()

	assert.Equal(t, Version, info["version"])
	assert.Equal(t, GitCommit, info["commit"])
	assert.Equal(t, runtime.Version(), info["go"])
}
