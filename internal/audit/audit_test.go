package audit

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/models"
	"github.com/mailru/easyjson"
)

type recordingConsumer struct {
	records []models.AuditRecord
	err     error
}

func (c *recordingConsumer) Update(record models.AuditRecord) error {
	c.records = append(c.records, record)
	return c.err
}

func TestAuditerNotify(t *testing.T) {
	a := NewAuditer(nil)
	a.now = func() time.Time { return time.Unix(1700000000, 0) }

	first := &recordingConsumer{err: io.ErrUnexpectedEOF}
	second := &recordingConsumer{}
	a.RegisterClient(first)
	a.RegisterClient(second)

	a.Notify(models.HighlightEvent{Key: "cpu", Value: 1500, Level: "WARNING"})

	if a.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", a.Len())
	}
	for i, c := range []*recordingConsumer{first, second} {
		if len(c.records) != 1 {
			t.Fatalf("consumer %d got %d records, want 1", i, len(c.records))
		}
		got := c.records[0]
		if got.TS != 1700000000 || got.Key != "cpu" || got.Value != 1500 || got.Level != "WARNING" {
			t.Errorf("consumer %d got %+v", i, got)
		}
		if got.Message != "[WARNING] cpu crossed threshold → 1500" {
			t.Errorf("consumer %d message = %q", i, got.Message)
		}
	}
}

func TestFileAuditerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.json")
	fa := NewFileAuditer(path)

	for _, v := range []int64{1001, 2002} {
		if err := fa.Update(models.AuditRecord{TS: 1, Key: "k", Value: v, Level: "INFO"}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	var log models.AuditLog
	if err := easyjson.Unmarshal(data, &log); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(log.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(log.Events))
	}
	if log.Events[0].Value != 1001 || log.Events[1].Value != 2002 {
		t.Errorf("events out of order: %+v", log.Events)
	}
}

func TestFileAuditerEmptyPathAndCorruptFile(t *testing.T) {
	if err := NewFileAuditer("").Update(models.AuditRecord{}); err != nil {
		t.Errorf("empty path: Update() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := NewFileAuditer(path).Update(models.AuditRecord{Key: "k"}); err == nil {
		t.Error("corrupt file: expected error")
	}
}

func TestURLAuditer(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "accepted", status: http.StatusOK, wantErr: false},
		{name: "no content", status: http.StatusNoContent, wantErr: false},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.AuditRecord
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("method = %s, want POST", r.Method)
				}
				if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
					t.Errorf("decode body: %v", err)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := NewURLAuditer(srv.URL, time.Second).Update(models.AuditRecord{Key: "disk", Value: 9000, Level: "CRITICAL"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Update() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got.Key != "disk" || got.Value != 9000 || got.Level != "CRITICAL" {
				t.Errorf("server received %+v", got)
			}
		})
	}

	if err := NewURLAuditer("", time.Second).Update(models.AuditRecord{}); err != nil {
		t.Errorf("empty url: Update() error = %v", err)
	}
}

func TestAuditerAsEngineSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.json")
	a := NewFromConfig(path, "", nil)

	e := engine.New(engine.WithSink(a))
	if err := e.UpdateMetric("load", 5000); err != nil {
		t.Fatalf("UpdateMetric() error = %v", err)
	}
	if err := e.UpdateMetric("load", 10); err != nil {
		t.Fatalf("UpdateMetric() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var log models.AuditLog
	if err := easyjson.Unmarshal(data, &log); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(log.Events) != 1 || log.Events[0].Key != "load" || log.Events[0].Level != models.LevelInfo {
		t.Errorf("audit log = %+v", log.Events)
	}
}
