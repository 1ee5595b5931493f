package db

import "context"

// runner is implemented by Connection and Tx.
type runner interface {
	Query(ctx context.Context, query string, args ...any) (*QueryResult, error)
}

func fetchOne(ctx context.Context, r runner, query string, args []any) (Row, error) {
	res, err := r.Query(ctx, query, args...)
	if err != nil {
		return Row{}, err
	}
	return res.FetchOne()
}

func fetchAll(ctx context.Context, r runner, query string, args []any) ([]Row, error) {
	res, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return res.FetchAll()
}

func fetchColumn(ctx context.Context, r runner, column int, query string, args []any) ([]any, error) {
	res, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return res.FetchColumn(column)
}

func fetchValue(ctx context.Context, r runner, query string, args []any) (any, error) {
	res, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return res.FetchValue()
}

func get(ctx context.Context, r runner, dst any, query string, args []any) error {
	res, err := r.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	return res.ScanOne(dst)
}

func selectAll(ctx context.Context, r runner, dst any, query string, args []any) error {
	res, err := r.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	return res.ScanAll(dst)
}
