// Package resp implements the subset of the RESP2 wire protocol this store
// speaks: client requests are always arrays of bulk strings, and replies are
// simple strings, errors, integers, bulk strings, arrays, and null bulk.
package resp

import "github.com/pkg/errors"

// state is the parser's position in the RESP array-of-bulk-strings grammar.
type state uint8

const (
	stateStart state = iota
	stateReadingArraySize
	stateReadingBulkPrefix
	stateReadingBulkSize
	stateReadingBulkData
)

const (
	arrayPrefix      = '*'
	bulkStringPrefix = '$'
)

var crlf = [2]byte{'\r', '\n'}

// ErrWaiting signals that the parser consumed all fully-formed tokens it
// could and needs more bytes from the socket before it can make progress.
var ErrWaiting = errors.New("resp: waiting for more data")

// ErrProtocol signals the byte stream violates the accepted grammar. The
// connection that produced it must be closed without a reply.
var ErrProtocol = errors.New("resp: protocol error")

// Parser is a resumable, allocation-light RESP decoder. It never performs
// I/O and never buffers more than the caller hands it: on Waiting the
// caller is expected to compact the unread remainder to the front of its
// own receive buffer and read more bytes before calling Parse again.
//
// A Parser instance is not safe for concurrent use; each connection owns
// exactly one.
type Parser struct {
	state        state
	expectedArgs int
	curArgLen    int
	args         [][]byte
}

// NewParser returns a Parser ready to decode the first frame of a
// connection.
func NewParser() *Parser {
	return &Parser{}
}

// Reset returns the parser to its initial state, discarding any
// partially-accumulated argument vector, so it can decode the next frame on
// the same connection.
func (p *Parser) Reset() {
	p.state = stateStart
	p.expectedArgs = 0
	p.curArgLen = 0
	p.args = nil
}

// Parse consumes bytes from buf and returns a complete argument vector, or
// an error. Each argument is copied out of buf as soon as its bulk payload
// is complete, so the caller may overwrite or compact buf between calls,
// including while a frame is only partly decoded.
//
// Parse never blocks and never looks past the end of buf. It returns the
// number of bytes consumed from buf so the caller can compact the
// remainder — bytes past n were not examined and must be retried on the
// next call.
func (p *Parser) Parse(buf []byte) (args [][]byte, consumed int, err error) {
	pos := 0

	for pos < len(buf) {
		switch p.state {
		case stateStart:
			if buf[pos] != arrayPrefix {
				return nil, pos, ErrProtocol
			}
			pos++
			p.state = stateReadingArraySize

		case stateReadingArraySize:
			n, adv, ok, perr := readDecimal(buf[pos:])
			if perr {
				return nil, pos, ErrProtocol
			}
			if !ok {
				return nil, pos, ErrWaiting
			}
			if n < 0 {
				return nil, pos, ErrProtocol
			}
			pos += adv
			p.expectedArgs = n
			p.args = make([][]byte, 0, n)
			p.state = stateReadingBulkPrefix

		case stateReadingBulkPrefix:
			if len(p.args) == p.expectedArgs {
				return p.args, pos, nil
			}
			if buf[pos] != bulkStringPrefix {
				return nil, pos, ErrProtocol
			}
			pos++
			p.state = stateReadingBulkSize

		case stateReadingBulkSize:
			n, adv, ok, perr := readDecimal(buf[pos:])
			if perr {
				return nil, pos, ErrProtocol
			}
			if !ok {
				return nil, pos, ErrWaiting
			}
			if n < 0 {
				return nil, pos, ErrProtocol
			}
			pos += adv
			p.curArgLen = n
			p.state = stateReadingBulkData

		case stateReadingBulkData:
			need := p.curArgLen + len(crlf)
			if len(buf)-pos < need {
				return nil, pos, ErrWaiting
			}
			if buf[pos+p.curArgLen] != crlf[0] || buf[pos+p.curArgLen+1] != crlf[1] {
				return nil, pos, ErrProtocol
			}
			p.args = append(p.args, append([]byte(nil), buf[pos:pos+p.curArgLen]...))
			pos += need
			p.state = stateReadingBulkPrefix

			if len(p.args) == p.expectedArgs {
				return p.args, pos, nil
			}
		}
	}

	return nil, pos, ErrWaiting
}

// readDecimal reads an unsigned ASCII base-10 run terminated by CRLF from
// the start of buf. It reports:
//   - (value, bytesConsumed, true, false)  on a complete, well-formed token
//   - (0, 0, false, false)                 if no CRLF has arrived yet (Waiting)
//   - (0, 0, false, true)                  if the digit run is malformed (Error)
//
// Unlike the C++ reference's read_integral (which collapses "no CRLF yet"
// and "malformed" into the same nullopt and lets the caller mis-map the
// former to Error for array sizes), this always distinguishes the two, so
// digit runs split across socket reads resume correctly. That includes a
// split landing right after the '\r': buf ending at idx+1 means '\n' simply
// hasn't arrived yet (Waiting), not that the terminator is wrong (Error) —
// only a present, wrong byte at idx+1 is malformed. See SPEC_FULL.md §4.1.
func readDecimal(buf []byte) (value int, consumed int, ok bool, malformed bool) {
	idx := -1
	for i, b := range buf {
		if b == '\r' {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, 0, false, false
	}
	if idx+1 >= len(buf) {
		return 0, 0, false, false
	}
	if buf[idx+1] != '\n' {
		return 0, 0, false, true
	}
	if idx == 0 {
		return 0, 0, false, true
	}

	n := 0
	for _, c := range buf[:idx] {
		if c < '0' || c > '9' {
			return 0, 0, false, true
		}
		n = n*10 + int(c-'0')
	}

	return n, idx + 2, true, false
}
