// Package command implements the static command registry and the handlers
// behind it: arity/type/numeric validation followed by a single keyspace
// mutation or read, producing a RESP reply per SPEC_FULL.md §4.5-4.6.
package command

import (
	"strings"

	"github.com/rkv-project/rkv/internal/resp"
	"github.com/rkv-project/rkv/internal/store"
)

// Handler executes one command against ks given its full argument vector
// (args[0] is the command name itself, as received on the wire).
type Handler func(ks *store.Keyspace, args [][]byte) resp.Response

// Registry is the static, case-insensitive name->Handler table. A Registry
// is built once at startup and never mutated afterward, so it needs no
// locking of its own — only the Keyspace it's invoked against does.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns a Registry populated with every command this store
// implements.
func NewRegistry() *Registry {
	r := &Registry{handlers: map[string]Handler{
		"ping":     handlePing,
		"set":      handleSet,
		"get":      handleGet,
		"keys":     handleKeys,
		"mget":     handleMGet,
		"flushdb":  handleFlushDB,
		"dbsize":   handleDBSize,
		"expire":   handleExpire,
		"ttl":      handleTTL,
		"persist":  handlePersist,
		"hset":     handleHSet,
		"hget":     handleHGet,
		"hgetall":  handleHGetAll,
		"lpush":    handleLPush,
		"lpop":     handleLPop,
		"lrange":   handleLRange,
		"zadd":     handleZAdd,
		"zrange":   handleZRange,
	}}
	return r
}

// Dispatch resolves args[0] against the registry and runs the matching
// handler. It implements SPEC_FULL.md §4.5's dispatch algorithm verbatim,
// including the empty-command and unknown-command error replies.
func (r *Registry) Dispatch(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) == 0 {
		return resp.Error("ERR empty command")
	}

	name := strings.ToLower(string(args[0]))
	h, ok := r.handlers[name]
	if !ok {
		return resp.Error("ERR unknown command '" + string(args[0]) + "'")
	}
	return h(ks, args)
}

func arityError(name string) resp.Response {
	return resp.Error("ERR wrong number of arguments for '" + name + "' command")
}

var (
	errWrongType = resp.Error("WRONGTYPE Operation against a key holding the wrong kind of value")
	errNotInt    = resp.Error("ERR value is not an integer or out of range")
	errNotFloat  = resp.Error("ERR value is not a valid float")
	errSyntax    = resp.Error("ERR syntax error")
)

func eqFold(b []byte, s string) bool {
	return strings.EqualFold(string(b), s)
}
