package builder

import (
	"os"
	"os/exec"
)

// sipEnv overrides the configured sip program, like CC and CXX do for compilers.
const sipEnv = "SIP"

// findSip returns the sip program to run: $SIP if set, else bin looked up on
// PATH. When the lookup fails bin is returned as is and the run reports it.
func findSip(bin string) string {
	if sip := os.Getenv(sipEnv); sip != "" {
		return sip
	}

	if path, err := exec.LookPath(bin); err == nil {
		return path
	}
	return bin
}
