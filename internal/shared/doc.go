// Package shared holds code used across sheetsight's packages that belongs to
// no single layer.
//
// The testutil subpackage builds in-memory workbooks and fixture rows for
// parser and service tests, and captures slog output so tests can assert on
// log records:
//
//	logger, handler := testutil.NewTestLogger(t)
//	svc := services.NewCompareService(store, nil, 20, logger)
//	...
//	testutil.AssertLogContains(t, handler, slog.LevelInfo, "comparison completed")
package shared
