package walker

import "runtime"

// SymlinksSupported reports whether WithFollowSymlinks is honored on this
// platform. Following is disabled on Windows, where lstat does not reliably
// report link targets.
func SymlinksSupported() bool {
	return runtime.GOOS != "windows"
}
