package command

import (
	"github.com/rkv-project/rkv/internal/resp"
	"github.com/rkv-project/rkv/internal/store"
)

func handleHSet(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) < 4 || len(args)%2 != 0 {
		return arityError("hset")
	}
	h, wrongType := ks.GetOrCreateHash(string(args[1]))
	if wrongType {
		return errWrongType
	}

	newFields := 0
	for i := 2; i+1 < len(args); i += 2 {
		field := string(args[i])
		if _, exists := h[field]; !exists {
			newFields++
		}
		h[field] = append([]byte(nil), args[i+1]...)
	}
	return resp.Integer(int64(newFields))
}

func handleHGet(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) != 3 {
		return arityError("hget")
	}
	v, ok := ks.Get(string(args[1]))
	if !ok {
		return resp.NullBulk{}
	}
	h, isHash := v.(store.HashValue)
	if !isHash {
		return errWrongType
	}
	field, ok := h[string(args[2])]
	if !ok {
		return resp.NullBulk{}
	}
	return resp.BulkString(field)
}

func handleHGetAll(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) != 2 {
		return arityError("hgetall")
	}
	out := resp.NewArray()
	v, ok := ks.Get(string(args[1]))
	if !ok {
		return out
	}
	h, isHash := v.(store.HashValue)
	if !isHash {
		return errWrongType
	}
	for field, value := range h {
		out.Add([]byte(field))
		out.Add(value)
	}
	return out
}
