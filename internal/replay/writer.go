package replay

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/annel0/aicup-bot/internal/record"
	"github.com/klauspost/compress/zstd"
)

// Writer пишет кадры и решения построчно в JSON, опционально сжимая zstd
type Writer struct {
	file    io.Closer
	buf     *bufio.Writer
	zw      *zstd.Encoder
	enc     *json.Encoder
	written int
}

// Create создаёт файл реплея. Файлы с расширением .zst сжимаются всегда.
func Create(path string, compress bool) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("создание реплея %s: %w", path, err)
	}

	w, err := NewWriter(f, compress || strings.HasSuffix(path, ".zst"))
	if err != nil {
		f.Close()
		return nil, err
	}
	w.file = f
	return w, nil
}

// NewWriter пишет в w. Close не закрывает w.
func NewWriter(w io.Writer, compress bool) (*Writer, error) {
	out := &Writer{buf: bufio.NewWriter(w)}
	var dst io.Writer = out.buf

	if compress {
		zw, err := zstd.NewWriter(out.buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		out.zw = zw
		dst = zw
	}

	out.enc = json.NewEncoder(dst)
	return out, nil
}

// WriteFrame дописывает кадр
func (w *Writer) WriteFrame(f Frame) error {
	return w.write(Entry{Kind: KindFrame, Frame: &f})
}

// WriteRecord дописывает решение
func (w *Writer) WriteRecord(r record.Record) error {
	return w.write(Entry{Kind: KindRecord, Record: &r})
}

func (w *Writer) write(e Entry) error {
	if err := w.enc.Encode(e); err != nil {
		return fmt.Errorf("запись %s: %w", e.Kind, err)
	}
	w.written++
	return nil
}

// Written возвращает число записанных строк
func (w *Writer) Written() int {
	return w.written
}

// Close сбрасывает буферы и закрывает файл, если он был открыт через Create
func (w *Writer) Close() error {
	if w.zw != nil {
		if err := w.zw.Close(); err != nil {
			return fmt.Errorf("zstd close: %w", err)
		}
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if w.file != nil {
		return w.file.Close()
	}
	return nil
}
