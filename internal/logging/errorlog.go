package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// ErrorLog grava falhas em arquivo append-only, uma linha JSON por evento.
type ErrorLog struct {
	zerolog.Logger
	closer io.Closer
}

// NewErrorLog abre (ou cria) o arquivo de log de erros.
func NewErrorLog(path string) (*ErrorLog, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("criar diretório de log: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("abrir log de erros: %w", err)
	}

	return &ErrorLog{Logger: newLogger(&lockedWriter{w: f}), closer: f}, nil
}

// NewErrorLogWriter usa um writer arbitrário; útil em testes.
func NewErrorLogWriter(w io.Writer) *ErrorLog {
	return &ErrorLog{Logger: newLogger(&lockedWriter{w: w})}
}

// Nop descarta tudo.
func Nop() *ErrorLog {
	return &ErrorLog{Logger: zerolog.Nop()}
}

// Close fecha o arquivo subjacente, se houver.
func (l *ErrorLog) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// lockedWriter serializa escritas concorrentes dos handlers.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
