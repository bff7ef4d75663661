package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gorilla/mux"
)

// NetworkLogger mirrors log output to a small HTTP server: live tail
// over SSE plus the recent file history. Plug it into the logger with
// an io.MultiWriter.
type NetworkLogger struct {
	clients     map[chan string]bool
	mu          sync.RWMutex
	port        string
	server      *http.Server
	logFile     *os.File
	logFilePath string
	maxSize     int64
}

func NewNetworkLogger(port string) *NetworkLogger {
	logFilePath := "logs_stream.txt"
	maxSize := int64(5 * 1024 * 1024)

	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		fmt.Printf("Failed to open log file: %v\n", err)
		logFile = nil
	}

	nl := &NetworkLogger{
		clients:     make(map[chan string]bool),
		port:        port,
		logFile:     logFile,
		logFilePath: logFilePath,
		maxSize:     maxSize,
	}

	r := mux.NewRouter()
	r.HandleFunc("/logs", nl.handleSSE).Methods(http.MethodGet)
	r.HandleFunc("/logs/history", nl.handleHistory).Methods(http.MethodGet)
	r.HandleFunc("/", nl.handleIndex).Methods(http.MethodGet)

	nl.server = &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	return nl
}

func (nl *NetworkLogger) Start() error {
	go func() {
		fmt.Printf("Network logger listening on http://localhost:%s\n", nl.port)
		if err := nl.server.ListenAndServe(); err != http.ErrServerClosed {
			fmt.Printf("Network logger server error: %v\n", err)
		}
	}()
	return nil
}

func (nl *NetworkLogger) Stop() error {
	if nl.server != nil {
		return nl.server.Close()
	}
	return nil
}

func (nl *NetworkLogger) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))

	if nl.logFile != nil {
		nl.checkAndRotateLog()
		if _, err := nl.logFile.WriteString(msg + "\n"); err != nil {
			fmt.Printf("Failed to write to log file: %v\n", err)
		}
		nl.logFile.Sync()
	}

	nl.mu.Lock()
	for client := range nl.clients {
		select {
		case client <- msg:
		default:
			delete(nl.clients, client)
			close(client)
		}
	}
	nl.mu.Unlock()

	return len(p), nil
}

func (nl *NetworkLogger) checkAndRotateLog() {
	if nl.logFile == nil {
		return
	}

	stat, err := nl.logFile.Stat()
	if err != nil {
		return
	}

	if stat.Size() > nl.maxSize {
		nl.logFile.Close()

		backupPath := nl.logFilePath + ".backup"
		os.Rename(nl.logFilePath, backupPath)

		newFile, err := os.OpenFile(nl.logFilePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			fmt.Printf("Failed to create new log file: %v\n", err)
			nl.logFile = nil
			return
		}
		nl.logFile = newFile
	}
}

func (nl *NetworkLogger) addClient() chan string {
	client := make(chan string, 100)

	nl.mu.Lock()
	nl.clients[client] = true
	nl.mu.Unlock()

	return client
}

func (nl *NetworkLogger) removeClient(client chan string) {
	nl.mu.Lock()
	if _, exists := nl.clients[client]; exists {
		delete(nl.clients, client)
		close(client)
	}
	nl.mu.Unlock()
}

func (nl *NetworkLogger) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	client := nl.addClient()
	defer nl.removeClient(client)

	fmt.Fprintf(w, "data: Connected to Gatekeeper log stream\n\n")
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	for {
		select {
		case msg := <-client:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		case <-r.Context().Done():
			return
		}
	}
}

func (nl *NetworkLogger) handleIndex(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Gatekeeper Logs</title>
    <style>
        body {
            font-family: 'JetBrains Mono', 'Consolas', monospace;
            background: #16213e;
            color: #e0e0e0;
            margin: 0;
            padding: 5px;
            font-size: 13px;
        }
        h1 { font-size: 16px; margin: 0 0 5px 0; color: #00d4ff; text-align: center; }
        .logs-container {
            background: rgba(0, 0, 0, 0.5);
            border: 1px solid #444;
            height: calc(100vh - 40px);
            border-radius: 3px;
        }
        #logs {
            height: 100%;
            overflow-y: auto;
            padding: 3px;
            font-size: 12px;
            line-height: 1.4;
        }
        .log-entry { white-space: pre-wrap; word-wrap: break-word; }
        .log-entry.error { color: #ff6b6b; }
        .log-entry.warn { color: #ffd93d; }
        .log-entry.info { color: #6bcf7f; }
        .log-entry.debug { color: #a8e6cf; }
    </style>
</head>
<body>
    <h1>Gatekeeper Logs</h1>
    <div class="logs-container"><div id="logs"></div></div>
    <script>
        const logsDiv = document.getElementById('logs');

        function addLogEntry(line) {
            const el = document.createElement('div');
            el.className = 'log-entry';
            for (const lvl of ['error', 'warn', 'info', 'debug']) {
                if (line.toLowerCase().includes(lvl)) { el.classList.add(lvl); break; }
            }
            el.textContent = line;
            logsDiv.appendChild(el);
            logsDiv.scrollTop = logsDiv.scrollHeight;
        }

        fetch('/logs/history').then(r => r.text()).then(history => {
            history.split('\n').filter(l => l.trim()).forEach(l => addLogEntry(l));
        }).catch(() => {});

        new EventSource('/logs').onmessage = e => addLogEntry(e.data);
    </script>
</body>
</html>`

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, html)
}

func (nl *NetworkLogger) handleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if nl.logFile == nil {
		return
	}

	data, err := os.ReadFile(nl.logFilePath)
	if err != nil {
		return
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) > 1000 {
		lines = lines[len(lines)-1000:]
	}

	fmt.Fprint(w, strings.Join(lines, "\n"))
}
