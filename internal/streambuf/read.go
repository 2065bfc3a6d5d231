package streambuf

import (
	"bytes"
	"io"
)

// ReadLine scans buf for a '\n', pulling more bytes from s when none is
// found yet. The returned line includes the trailing '\r' (callers strip
// it); the '\n' itself is consumed but not included.
//
// ok is true when a terminated line was found. If the underlying stream
// hits EOF before a '\n' appears, ok is false and line holds whatever
// partial bytes were buffered (empty string if nothing was buffered).
// err is reserved for genuine transport failures, not EOF.
func ReadLine(s Stream, buf *Buffer) (line string, ok bool, err error) {
	for {
		if idx := bytes.IndexByte(buf.Bytes(), '\n'); idx != -1 {
			line = buf.Slice(0, idx)
			buf.RemovePrefix(idx + 1)
			return line, true, nil
		}

		n, rerr := buf.ReadOnce(s.Read)
		if rerr != nil {
			if rerr == io.EOF {
				return string(buf.Bytes()), false, nil
			}
			return "", false, rerr
		}
		if n == 0 {
			return string(buf.Bytes()), false, nil
		}
	}
}

// ReadAtLeast ensures buf holds at least n live bytes, pulling more from
// s as needed. If s is exhausted first, tooShort is invoked and its
// error (if any) is returned; a nil tooShort is treated as returning
// io.ErrUnexpectedEOF.
func ReadAtLeast(s Stream, buf *Buffer, n int, tooShort func() error) error {
	for buf.Len() < n {
		read, err := buf.ReadOnce(s.Read)
		if err != nil && err != io.EOF {
			return err
		}
		if (err == io.EOF || read == 0) && buf.Len() < n {
			if tooShort != nil {
				if cbErr := tooShort(); cbErr != nil {
					return cbErr
				}
			}
			return io.ErrUnexpectedEOF
		}
	}
	return nil
}

// ReadAll drains s into buf until it reports EOF, returning the
// accumulated contents and clearing buf.
func ReadAll(s Stream, buf *Buffer) (string, error) {
	for {
		n, err := buf.ReadOnce(s.Read)
		if err != nil && err != io.EOF {
			return "", err
		}
		if err == io.EOF || n == 0 {
			break
		}
	}
	out := string(buf.Bytes())
	buf.Clear()
	return out, nil
}
