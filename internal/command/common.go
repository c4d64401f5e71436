package command

import (
	"github.com/rkv-project/rkv/internal/resp"
	"github.com/rkv-project/rkv/internal/store"
)

func handlePing(ks *store.Keyspace, args [][]byte) resp.Response {
	switch len(args) {
	case 1:
		return resp.SimpleString("PONG")
	case 2:
		return resp.SimpleString(string(args[1]))
	default:
		return arityError("ping")
	}
}

func handleKeys(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) < 2 {
		return arityError("keys")
	}
	candidates := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		candidates = append(candidates, string(a))
	}
	found := ks.Keys(candidates)
	a := resp.NewArray()
	for _, k := range found {
		a.Add([]byte(k))
	}
	return a
}

func handleMGet(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) < 2 {
		return arityError("mget")
	}
	keys := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		keys = append(keys, string(a))
	}
	values := ks.MGet(keys)

	out := resp.NewArray()
	for _, v := range values {
		if v == nil {
			out.AddNull()
			continue
		}
		if s, ok := v.(store.StringValue); ok {
			out.Add([]byte(s))
		} else {
			out.AddNull()
		}
	}
	return out
}

func handleFlushDB(ks *store.Keyspace, args [][]byte) resp.Response {
	switch {
	case len(args) == 1:
		ks.Flush()
	case len(args) == 2 && eqFold(args[1], "async"):
		ks.FlushAsync()
	case len(args) == 2 && eqFold(args[1], "sync"):
		ks.Flush()
	default:
		return arityError("flushdb")
	}
	return resp.SimpleString("OK")
}

func handleDBSize(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) != 1 {
		return arityError("dbsize")
	}
	return resp.Integer(int64(ks.Size()))
}

func handleExpire(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) != 3 {
		return arityError("expire")
	}
	seconds, ok := parseUint64(args[2])
	if !ok {
		return errNotInt
	}
	ok = ks.ExpireAt(string(args[1]), int64(seconds))
	if ok {
		return resp.Integer(1)
	}
	return resp.Integer(0)
}

func handleTTL(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) != 2 {
		return arityError("ttl")
	}
	seconds, _ := ks.TTL(string(args[1]))
	return resp.Integer(seconds)
}

func handlePersist(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) != 2 {
		return arityError("persist")
	}
	if ks.Persist(string(args[1])) {
		return resp.Integer(1)
	}
	return resp.Integer(0)
}
