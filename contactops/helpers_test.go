package contactops

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/nalgeon/be"

	"github.com/spachava753/cardsync/card"
)

func newTestLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func newTestConverter(opts ...Option) *Converter {
	return NewConverter(newTestLogger(), opts...)
}

func decodeCard(t *testing.T, lines ...string) *card.Document {
	t.Helper()
	raw := "BEGIN:VCARD\r\nVERSION:3.0\r\n" + strings.Join(lines, "\r\n")
	if len(lines) > 0 {
		raw += "\r\n"
	}
	raw += "END:VCARD\r\n"
	doc, err := card.Decode(strings.NewReader(raw))
	be.Err(t, err, nil)
	return doc
}

func opsOfKind(ops []Operation, kind Kind) []Operation {
	var out []Operation
	for _, op := range ops {
		if mt, ok := op.Values.String(ColumnMimeType); ok && mt == string(kind) {
			out = append(out, op)
			continue
		}
		if op.Selection != nil && op.Selection.MimeType == kind {
			out = append(out, op)
		}
	}
	return out
}

func mustString(t *testing.T, v Values, key string) string {
	t.Helper()
	s, ok := v.String(key)
	be.True(t, ok)
	return s
}

func mustInt(t *testing.T, v Values, key string) int {
	t.Helper()
	n, ok := v.Int(key)
	be.True(t, ok)
	return n
}

type fakeExecutor struct {
	err   error
	calls [][]Operation
}

func (f *fakeExecutor) ApplyBatch(_ context.Context, ops []Operation) ([]OperationResult, error) {
	f.calls = append(f.calls, ops)
	if f.err != nil {
		return nil, f.err
	}
	results := make([]OperationResult, len(ops))
	for i, op := range ops {
		results[i] = OperationResult{Count: 1}
		if op.Type == OpInsert {
			results[i].ID = int64(100 + i)
		}
	}
	return results, nil
}

type fakeFetcher struct {
	mu     sync.Mutex
	data   map[string][]byte
	err    error
	called []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.called = append(f.called, url)
	if f.err != nil {
		return nil, f.err
	}
	return f.data[url], nil
}
