package download

import (
	"os/exec"
	goruntime "runtime"
)

// killByName force-kills any processes matching the given executable
// names. The downloader forks encoder helpers that do not terminate with
// their parent, so a plain child kill is not enough.
func killByName(names ...string) {
	for _, name := range names {
		var cmd *exec.Cmd
		switch goruntime.GOOS {
		case "windows":
			cmd = exec.Command("taskkill", "/F", "/IM", name+".exe")
		default:
			cmd = exec.Command("pkill", "-9", "-f", name)
		}
		_ = cmd.Run()
	}
}
