package trackbot

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	log "github.com/sirupsen/logrus"
)

var version = ""
var builddate = ""

// LogVersion print version to log
func LogVersion() {
	log.WithFields(log.Fields{
		"version": version,
		"built":   builddate,
	}).Info("Trackbot")
}

// Banner Print Version on stdout
func Banner(w io.Writer) {
	if version == "" {
		if build, ok := debug.ReadBuildInfo(); ok {
			version = build.Main.Version
		}
	}

	if !strings.Contains(builddate, runtime.Version()) {
		builddate += " using " + runtime.Version()
	}

	banner := []string{
		"\n _                  _    _           _   \n",
		"| |_ _ __ __ _  ___| | _| |__   ___ | |_ \n",
		"| __| '__/ _` |/ __| |/ / '_ \\ / _ \\| __|\n",
		"| |_| | | (_| | (__|   <| |_) | (_) | |_ \n",
		" \\__|_|  \\__,_|\\___|_|\\_\\_.__/ \\___/ \\__| %s\n(%s)\n\n",
	}

	withoutWriter := w == nil

	for _, v := range banner {
		if !strings.Contains(v, "%s") {
			if withoutWriter {
				fmt.Print(v)
			} else {
				fmt.Fprint(w, v)
			}
		} else {
			if withoutWriter {
				fmt.Printf(v, version, builddate)
			} else {
				fmt.Fprintf(w, v, version, builddate)
			}
		}
	}
}
