package production

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kan1-u/event-observer/testutil"
)

func TestLogObserver_WritesEvent(t *testing.T) {
	var buf bytes.Buffer
	o := NewLogObserver[testutil.Event](zerolog.New(&buf), "audit", zerolog.InfoLevel)
	o.OnNotify(testutil.Event{Seq: 7, Name: "login"})

	var line struct {
		Level    string         `json:"level"`
		Observer string         `json:"observer"`
		Event    testutil.Event `json:"event"`
		Message  string         `json:"message"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if line.Level != "info" || line.Observer != "audit" || line.Event.Seq != 7 || line.Event.Name != "login" {
		t.Errorf("unexpected log line: %+v", line)
	}
}

func TestLogObserver_RespectsLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Level(zerolog.WarnLevel)
	o := NewLogObserver[testutil.Event](l, "audit", zerolog.DebugLevel)
	o.OnNotify(testutil.Event{})
	if strings.TrimSpace(buf.String()) != "" {
		t.Errorf("expected nothing below warn, got %q", buf.String())
	}
}
