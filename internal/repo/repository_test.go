package repo_test

import (
	"testing"

	"github.com/hamed0406/sitecheck/internal/repo"
	"github.com/hamed0406/sitecheck/internal/repo/memory"
)

// Compile-time interface satisfaction checks.
// Using external test package avoids import cycle.
func TestInterfaceSatisfaction(t *testing.T) {
	var _ repo.Registry = memory.New()
	var _ repo.StatusReader = memory.New()
	var _ repo.CheckRecorder = memory.New()
}
