// Package launchagent renders and installs the launchd agents that run
// autoblock on a schedule.
package launchagent

import (
	"bytes"
	"encoding/xml"
	"strings"
	"text/template"
	"time"

	"github.com/ayoisaiah/autoblock/internal/apperr"
	"github.com/ayoisaiah/autoblock/internal/timeutil"
)

const (
	// MainLabel identifies the agent that runs the periodic check.
	MainLabel = "com.ayoisaiah.autoblock"
	// RearmLabel identifies the agent that restarts the tool when its block
	// ends before the scheduled one. launchd fires it daily at its time
	// until an execute run that needs no re-arm removes it.
	RearmLabel = "com.ayoisaiah.autoblock.rearm"
)

var errInvalidPlist = &apperr.Error{
	Message: "invalid launch agent %s: %s",
}

const plistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{ escape .Label }}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{ escape .Program }}</string>
{{- range .Args }}
		<string>{{ escape . }}</string>
{{- end }}
	</array>
{{- if .Interval }}
	<key>StartInterval</key>
	<integer>{{ seconds .Interval }}</integer>
{{- end }}
{{- if .Calendar }}
	<key>StartCalendarInterval</key>
	<array>
{{- range .Calendar }}
		<dict>
			<key>Hour</key>
			<integer>{{ .Hour }}</integer>
			<key>Minute</key>
			<integer>{{ .Minute }}</integer>
		</dict>
{{- end }}
	</array>
{{- end }}
{{- if .RunAtLoad }}
	<key>RunAtLoad</key>
	<true/>
{{- end }}
</dict>
</plist>
`

var tmpl = template.Must(template.New("plist").Funcs(template.FuncMap{
	"escape": escape,
	"seconds": func(d time.Duration) int64 {
		return int64(d / time.Second)
	},
}).Parse(plistTemplate))

// Plist describes a launch agent. An agent may be triggered by an interval,
// by times of day, or by both.
type Plist struct {
	Label     string
	Program   string
	Args      []string
	Calendar  []timeutil.Clock
	Interval  time.Duration
	RunAtLoad bool
}

// Render returns the agent as a property list document.
func (p *Plist) Render() ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	if err := tmpl.Execute(&buf, p); err != nil {
		return nil, errInvalidPlist.Fmt(p.Label, "render").Wrap(err)
	}

	return buf.Bytes(), nil
}

func (p *Plist) validate() error {
	switch {
	case strings.TrimSpace(p.Label) == "":
		return errInvalidPlist.Fmt("", "missing label")
	case p.Program == "":
		return errInvalidPlist.Fmt(p.Label, "missing program")
	case p.Interval < 0 || (p.Interval > 0 && p.Interval < time.Second):
		return errInvalidPlist.Fmt(p.Label, "interval must be at least one second")
	case p.Interval == 0 && len(p.Calendar) == 0:
		return errInvalidPlist.Fmt(p.Label, "no trigger")
	}

	return nil
}

func escape(s string) (string, error) {
	var b strings.Builder

	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}

	return b.String(), nil
}
