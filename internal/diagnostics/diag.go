// Package diagnostics describes problems surfaced to preview clients.
package diagnostics

import "time"

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes reported by the pipeline.
const (
	LabelBuildFailed = "LABEL.BUILD_FAILED"
	FontLoadFailed   = "FONT.LOAD_FAILED"
	AudioLoadFailed  = "AUDIO.LOAD_FAILED"
	AudioPlaying     = "AUDIO.PLAYING"
	LedInitFailed    = "LED.INIT_FAILED"
	RenderFailed     = "RENDER.FAILED"
	FramePanicked    = "FRAME.PANIC"
	DriverStarted    = "DRIVER.STARTED"
	DriverStopped    = "DRIVER.STOPPED"
)

type Diagnostic struct {
	Time           time.Time      `json:"time"`
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

func New(sev Severity, code, summary string) Diagnostic {
	return Diagnostic{Time: time.Now(), Severity: sev, Code: code, Summary: summary}
}

// FromError builds a diagnostic whose detail is err's message.
func FromError(sev Severity, code, summary string, err error) Diagnostic {
	d := New(sev, code, summary)
	if err != nil {
		d.Detail = err.Error()
	}
	return d
}

// Pusher accepts diagnostics, e.g. the preview server.
type Pusher interface {
	PushDiag(d Diagnostic)
}

// Discard drops every diagnostic.
var Discard Pusher = discard{}

type discard struct{}

func (discard) PushDiag(Diagnostic) {}
