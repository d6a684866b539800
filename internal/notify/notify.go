// Package notify publishes run summaries to NATS.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/htmlgen/internal/logfields"
	"git.home.luguber.info/inful/htmlgen/internal/site"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "htmlgen.runs"

const flushTimeout = 5 * time.Second

// Conn is the part of *nats.Conn the notifier uses.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// RunMessage is the JSON body published after every run.
type RunMessage struct {
	RunID       string    `json:"run_id"`
	Template    string    `json:"template"`
	Destination string    `json:"destination"`
	Outcome     string    `json:"outcome"`
	Items       int       `json:"items"`
	Pages       []string  `json:"pages"`
	Files       int       `json:"files"`
	DurationMS  int64     `json:"duration_ms"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Notifier publishes a RunMessage when a run completes.
type Notifier struct {
	conn    Conn
	subject string
}

// Connect dials the NATS server at url.
func Connect(url, subject string) (*Notifier, error) {
	conn, err := nats.Connect(url,
		nats.Name("htmlgen"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("NATS notifications enabled", logfields.URL(url), logfields.Subject(subjectOrDefault(subject)))
	return New(conn, subject), nil
}

// New wraps an existing connection.
func New(conn Conn, subject string) *Notifier {
	return &Notifier{conn: conn, subject: subjectOrDefault(subject)}
}

// Subject returns the subject messages are published on.
func (n *Notifier) Subject() string { return n.subject }

// Publish sends the summary of report and waits for the server to receive it.
func (n *Notifier) Publish(report *site.Report) error {
	msg := RunMessage{
		RunID:       report.RunID,
		Template:    report.Template,
		Destination: report.Destination,
		Outcome:     string(report.Outcome),
		Items:       report.Items,
		Pages:       report.Pages,
		Files:       len(report.Files),
		DurationMS:  report.Duration().Milliseconds(),
		Error:       report.Error,
		Timestamp:   report.End.UTC(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal run message: %w", err)
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return fmt.Errorf("failed to publish run message: %w", err)
	}
	if err := n.conn.FlushTimeout(flushTimeout); err != nil {
		return fmt.Errorf("failed to flush run message: %w", err)
	}
	slog.Debug("Published run message", logfields.RunID(report.RunID), logfields.Subject(n.subject))
	return nil
}

func (n *Notifier) OnRunStart(*site.Report) {}

func (n *Notifier) OnStageComplete(string, site.StageName, time.Duration, error) {}

func (n *Notifier) OnRunComplete(report *site.Report) {
	if err := n.Publish(report); err != nil {
		slog.Warn("Run notification failed", logfields.RunID(report.RunID), logfields.Error(err))
	}
}

// Close closes the connection.
func (n *Notifier) Close() {
	if n.conn != nil {
		n.conn.Close()
	}
}

func subjectOrDefault(subject string) string {
	if subject == "" {
		return DefaultSubject
	}
	return subject
}
