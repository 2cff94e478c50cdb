package version

import "fmt"

// These variables are populated at build time via -ldflags.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

const Name = "amtconsole"

func String() string {
	base := Version
	if Commit != "" {
		base += fmt.Sprintf(" (%s)", Commit)
	}
	if Date != "" {
		base += fmt.Sprintf(" %s", Date)
	}
	return base
}

// UserAgent is sent with every backend request.
func UserAgent() string {
	return Name + "/" + Version
}
