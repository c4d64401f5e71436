package command

import (
	"github.com/rkv-project/rkv/internal/resp"
	"github.com/rkv-project/rkv/internal/store"
)

func handleZAdd(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) < 4 || len(args)%2 != 0 {
		return arityError("zadd")
	}

	// Validate every score before mutating anything, so a malformed pair
	// later in the argument list doesn't leave earlier pairs applied.
	scores := make([]float64, 0, (len(args)-2)/2)
	for i := 2; i+1 < len(args); i += 2 {
		score, ok := parseFloat64(args[i])
		if !ok {
			return errNotFloat
		}
		scores = append(scores, score)
	}

	s, wrongType := ks.GetOrCreateSortedSet(string(args[1]))
	if wrongType {
		return errWrongType
	}

	newMembers := 0
	si := 0
	for i := 2; i+1 < len(args); i += 2 {
		member := string(args[i+1])
		if s.InsertOrAssign(member, scores[si]) {
			newMembers++
		}
		si++
	}
	return resp.Integer(int64(newMembers))
}

func handleZRange(ks *store.Keyspace, args [][]byte) resp.Response {
	if len(args) != 4 && len(args) != 5 {
		return arityError("zrange")
	}
	start, ok := parseInt64(args[2])
	if !ok {
		return errNotInt
	}
	stop, ok := parseInt64(args[3])
	if !ok {
		return errNotInt
	}
	withScores := false
	if len(args) == 5 {
		if !eqFold(args[4], "withscores") {
			return errSyntax
		}
		withScores = true
	}

	out := resp.NewArray()
	v, ok := ks.Get(string(args[1]))
	if !ok {
		return out
	}
	s, isSet := v.(*store.SortedSetValue)
	if !isSet {
		return errWrongType
	}

	normStart, normStop, inRange := store.NormalizeRange(int(start), int(stop), s.Len())
	if !inRange {
		return out
	}
	for _, entry := range s.Range(normStart, normStop) {
		out.Add([]byte(entry.Member))
		if withScores {
			out.Add([]byte(formatScore(entry.Score)))
		}
	}
	return out
}
