package store

import "strings"

// where builds a WHERE clause and its arguments from opts.
func (o QueryOpts) where() (string, []any) {
	var conds []string
	var args []any
	if o.After > 0 {
		conds = append(conds, "sequence > ?")
		args = append(args, o.After)
	}
	if o.Before > 0 {
		conds = append(conds, "sequence < ?")
		args = append(args, o.Before)
	}
	if !o.From.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, o.From.UnixMilli())
	}
	if !o.To.IsZero() {
		conds = append(conds, "timestamp <= ?")
		args = append(args, o.To.UnixMilli())
	}
	return strings.Join(conds, " AND "), args
}

// build appends filters, ordering and limit to a base SELECT. extra is an
// additional condition joined with AND.
func (o QueryOpts) build(base, extra string, extraArgs ...any) (string, []any) {
	cond, args := o.where()
	var conds []string
	if extra != "" {
		conds = append(conds, extra)
	}
	if cond != "" {
		conds = append(conds, cond)
	}
	q := base
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY sequence DESC"
	if o.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, o.Limit)
	}
	return q, append(extraArgs, args...)
}
