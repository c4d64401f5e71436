package command

import (
	"github.com/rkv-project/rkv/internal/resp"
	"github.com/rkv-project/rkv/internal/store"
)

func handleSet(ks *store.Keyspace, args [][]byte) resp.Response {
	switch len(args) {
	case 3:
		ks.Set(string(args[1]), store.StringValue(args[2]))
		return resp.SimpleString("OK")
	case 5:
		if !eqFold(args[3], "ex") {
			return arityError("set")
		}
		seconds, ok := parseUint64(args[4])
		if !ok {
			return errNotInt
		}
		ks.SetWithTTL(string(args[1]), store.StringValue(args[2]), seconds)
		return resp.SimpleString("OK")
	default:
		return arityError("set")
	}
}

func handleGet(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) != 2 {
		return arityError("get")
	}
	v, ok := ks.Get(string(args[1]))
	if !ok {
		return resp.NullBulk{}
	}
	s, isString := v.(store.StringValue)
	if !isString {
		return errWrongType
	}
	return resp.BulkString(s)
}
