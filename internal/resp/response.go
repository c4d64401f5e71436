package resp

import (
	"strconv"

	"github.com/valyala/bytebufferpool"
)

// Response is anything that can serialize itself into a scatter list of
// byte buffers for a single client write. Implementations borrow pooled
// buffers from bytebufferpool rather than building one large []byte, the
// way the reference's Response hierarchy hands out shared_ptr<string>
// segments that outlive the handler but are reclaimed once the write
// completes.
type Response interface {
	// Buffers appends this response's wire representation to dst and
	// returns the extended slice. Each appended buffer must be released
	// with bytebufferpool.Put once the caller has finished writing it.
	Buffers(dst []*bytebufferpool.ByteBuffer) []*bytebufferpool.ByteBuffer
}

// ReleaseBuffers returns every buffer in bufs to the shared pool. Callers
// must invoke this only after the buffers have been fully written to the
// socket.
func ReleaseBuffers(bufs []*bytebufferpool.ByteBuffer) {
	for _, b := range bufs {
		bytebufferpool.Put(b)
	}
}

func newBuf() *bytebufferpool.ByteBuffer {
	return bytebufferpool.Get()
}

// SimpleString is a RESP "+<content>\r\n" reply.
type SimpleString string

func (s SimpleString) Buffers(dst []*bytebufferpool.ByteBuffer) []*bytebufferpool.ByteBuffer {
	b := newBuf()
	b.WriteByte('+')
	b.WriteString(string(s))
	b.Write(crlf[:])
	return append(dst, b)
}

// Error is a RESP "-<content>\r\n" reply. content is one of the canonical
// error strings in spec.md §6.
type Error string

func (e Error) Buffers(dst []*bytebufferpool.ByteBuffer) []*bytebufferpool.ByteBuffer {
	b := newBuf()
	b.WriteByte('-')
	b.WriteString(string(e))
	b.Write(crlf[:])
	return append(dst, b)
}

// Integer is a RESP ":<n>\r\n" reply.
type Integer int64

func (n Integer) Buffers(dst []*bytebufferpool.ByteBuffer) []*bytebufferpool.ByteBuffer {
	b := newBuf()
	b.WriteByte(':')
	b.WriteString(strconv.FormatInt(int64(n), 10))
	b.Write(crlf[:])
	return append(dst, b)
}

// NullBulk is the RESP "$-1\r\n" null bulk reply, used for absent keys and
// fields.
type NullBulk struct{}

func (NullBulk) Buffers(dst []*bytebufferpool.ByteBuffer) []*bytebufferpool.ByteBuffer {
	b := newBuf()
	b.WriteString("$-1")
	b.Write(crlf[:])
	return append(dst, b)
}

// BulkString is a single "$<len>\r\n<bytes>\r\n" reply.
type BulkString []byte

func (s BulkString) Buffers(dst []*bytebufferpool.ByteBuffer) []*bytebufferpool.ByteBuffer {
	header := newBuf()
	header.WriteByte('$')
	header.WriteString(strconv.Itoa(len(s)))
	header.Write(crlf[:])

	body := newBuf()
	body.Write(s)
	body.Write(crlf[:])

	return append(dst, header, body)
}

// Array is a RESP "*<count>\r\n" reply followed by each record encoded as a
// bulk string (or a null bulk, for a nil record). A nil Array (no records
// added) still encodes as "*0\r\n" — used for the empty-result replies
// spec.md mandates (e.g. LRANGE on a missing key).
type Array struct {
	records [][]byte
	nils    []bool
}

// NewArray returns an empty Array builder.
func NewArray() *Array {
	return &Array{}
}

// Add appends a bulk-string record.
func (a *Array) Add(record []byte) {
	a.records = append(a.records, record)
	a.nils = append(a.nils, false)
}

// AddNull appends a null-bulk record, used by MGET for keys that are
// missing or hold the wrong shape.
func (a *Array) AddNull() {
	a.records = append(a.records, nil)
	a.nils = append(a.nils, true)
}

// Len reports the number of records accumulated so far.
func (a *Array) Len() int {
	return len(a.records)
}

func (a *Array) Buffers(dst []*bytebufferpool.ByteBuffer) []*bytebufferpool.ByteBuffer {
	header := newBuf()
	header.WriteByte('*')
	header.WriteString(strconv.Itoa(len(a.records)))
	header.Write(crlf[:])
	dst = append(dst, header)

	for i, rec := range a.records {
		if a.nils[i] {
			dst = NullBulk{}.Buffers(dst)
			continue
		}
		dst = BulkString(rec).Buffers(dst)
	}
	return dst
}
