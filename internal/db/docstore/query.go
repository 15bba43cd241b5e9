package docstore

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// Filter restricts a query to documents whose field at Path matches Value.
// Path may be nested with dots ("author.user_id"). Op is "=" or "in"
// (Value []string, at most InChunkSize ids).
type Filter struct {
	Path  string
	Op    string
	Value any
}

// InChunkSize is the maximum number of ids per "in" filter. Callers batching
// larger id sets must chunk (the like existence check does).
const InChunkSize = 30

// Query describes a range read. OrderBy must name a timestamp field stored
// in the document; ordering and cursors compare it as timestamptz with the
// document id as tiebreaker, which keeps pagination stable.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
	Cursor  string
}

// QueryDocs runs q against a collection and returns raw documents plus the
// cursor for the next page ("" when exhausted).
func (s *Store) QueryDocs(ctx context.Context, collection string, q Query) ([][]byte, string, error) {
	if q.OrderBy == "" {
		return nil, "", fmt.Errorf("query requires an order-by field")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}

	where := []string{"collection = $1"}
	args := []any{collection}
	idx := 2

	for _, f := range q.Filters {
		expr := jsonPathExpr(f.Path)
		switch f.Op {
		case "", "=":
			where = append(where, fmt.Sprintf("%s = $%d", expr, idx))
			args = append(args, fmt.Sprintf("%v", f.Value))
			idx++
		case "in":
			ids, ok := f.Value.([]string)
			if !ok {
				return nil, "", fmt.Errorf("in filter on %s requires []string", f.Path)
			}
			if len(ids) > InChunkSize {
				return nil, "", fmt.Errorf("in filter on %s exceeds chunk size %d", f.Path, InChunkSize)
			}
			where = append(where, fmt.Sprintf("%s = ANY($%d)", expr, idx))
			args = append(args, pq.Array(ids))
			idx++
		default:
			return nil, "", fmt.Errorf("unsupported filter op %q", f.Op)
		}
	}

	orderExpr := fmt.Sprintf("(%s)::timestamptz", jsonPathExpr(q.OrderBy))
	dir, cmp := "ASC", ">"
	if q.Desc {
		dir, cmp = "DESC", "<"
	}

	if q.Cursor != "" {
		sortVal, lastID, err := decodeCursor(q.Cursor)
		if err != nil {
			return nil, "", err
		}
		where = append(where, fmt.Sprintf("(%s, id) %s ($%d::timestamptz, $%d)", orderExpr, cmp, idx, idx+1))
		args = append(args, sortVal, lastID)
		idx += 2
	}

	// Fetch one extra row to decide whether another page exists.
	args = append(args, limit+1)
	query := fmt.Sprintf(`
		SELECT id, data, %s::text FROM documents
		WHERE %s
		ORDER BY %s %s, id %s
		LIMIT $%d
	`, orderExpr, strings.Join(where, " AND "), orderExpr, dir, dir, idx)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Warn("failed to close query rows", "collection", collection, "error", cerr)
		}
	}()

	type row struct {
		id      string
		data    []byte
		sortVal string
	}
	var all []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.data, &r.sortVal); err != nil {
			return nil, "", fmt.Errorf("failed to scan %s row: %w", collection, err)
		}
		all = append(all, r)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("failed iterating %s rows: %w", collection, err)
	}

	next := ""
	if len(all) > limit {
		all = all[:limit]
		last := all[len(all)-1]
		next = encodeCursor(last.sortVal, last.id)
	}

	docs := make([][]byte, len(all))
	for i, r := range all {
		docs[i] = r.data
	}
	return docs, next, nil
}

// jsonPathExpr turns "author.user_id" into data #>> '{author,user_id}'.
// Paths come from repository code, never from request input.
func jsonPathExpr(path string) string {
	parts := strings.Split(path, ".")
	return fmt.Sprintf("data #>> '{%s}'", strings.Join(parts, ","))
}

// Cursor format: base64url(sort_value|id). Opaque to clients.
func encodeCursor(sortVal, id string) string {
	return base64.URLEncoding.EncodeToString([]byte(sortVal + "|" + id))
}

func decodeCursor(cursor string) (sortVal, id string, err error) {
	const maxCursorSize = 512
	if len(cursor) > maxCursorSize {
		return "", "", fmt.Errorf("%w: too large", ErrInvalidCursor)
	}
	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return "", "", fmt.Errorf("%w: bad base64", ErrInvalidCursor)
	}
	sep := strings.LastIndexByte(string(decoded), '|')
	if sep <= 0 || sep == len(decoded)-1 {
		return "", "", fmt.Errorf("%w: bad format", ErrInvalidCursor)
	}
	return string(decoded[:sep]), string(decoded[sep+1:]), nil
}
