package monitor

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"
)

// previewLimit keeps long assistant replies from flooding the console.
const previewLimit = 400

// CLIMonitor mirrors the traffic of every channel onto the terminal.
// Writes are serialized; requests from different channels arrive in parallel.
type CLIMonitor struct {
	mu     sync.Mutex
	writer io.Writer
}

func NewCLIMonitor() *CLIMonitor {
	return &CLIMonitor{writer: os.Stdout}
}

func (m *CLIMonitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintln(m.writer, "💬 Chat monitor active")
	return nil
}

func (m *CLIMonitor) Stop() error {
	return nil
}

func (m *CLIMonitor) OnMessage(msg MonitorMessage) {
	content := strings.ReplaceAll(msg.Content, "\n", " ")
	if utf8.RuneCountInString(content) > previewLimit {
		content = string([]rune(content)[:previewLimit]) + "…"
	}

	var tag string
	if msg.MessageType == "ASSISTANT" {
		tag = "[AI]"
	} else {
		tag = fmt.Sprintf("[%s/%s]", msg.ChannelID, msg.Username)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	fmt.Fprintf(m.writer, "\033[90m[%s]\033[0m %s %s\n",
		msg.Timestamp.Format("2006-01-02 15:04:05"), tag, content)
}
