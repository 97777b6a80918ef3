package cmd

import "testing"

func TestVersionCommandRunsWithoutError(t *testing.T) {
	if versionCmd.Run == nil {
		t.Fatal("versionCmd.Run is nil")
	}
	versionCmd.Run(versionCmd, nil)
}
