package command

import (
	"github.com/rkv-project/rkv/internal/resp"
	"github.com/rkv-project/rkv/internal/store"
)

func handleLPush(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) < 3 {
		return arityError("lpush")
	}
	l, wrongType := ks.GetOrCreateList(string(args[1]))
	if wrongType {
		return errWrongType
	}
	for _, v := range args[2:] {
		l.PushHead(append([]byte(nil), v...))
	}
	return resp.Integer(int64(l.Len()))
}

func handleLPop(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) != 2 {
		return arityError("lpop")
	}
	v, ok := ks.Get(string(args[1]))
	if !ok {
		return resp.NullBulk{}
	}
	l, isList := v.(*store.ListValue)
	if !isList {
		return errWrongType
	}
	head, ok := l.PopHead()
	if !ok {
		return resp.NullBulk{}
	}
	return resp.BulkString(head)
}

func handleLRange(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) != 4 {
		return arityError("lrange")
	}
	start, ok := parseInt64(args[2])
	if !ok {
		return errNotInt
	}
	stop, ok := parseInt64(args[3])
	if !ok {
		return errNotInt
	}

	out := resp.NewArray()
	v, ok := ks.Get(string(args[1]))
	if !ok {
		return out
	}
	l, isList := v.(*store.ListValue)
	if !isList {
		return errWrongType
	}

	normStart, normStop, inRange := store.NormalizeRange(int(start), int(stop), l.Len())
	if !inRange {
		return out
	}
	for _, elem := range l.Slice(normStart, normStop) {
		out.Add(elem)
	}
	return out
}
