// Package middleware decorates ports.ProgramStore implementations.
//
//	store := middleware.Chain(file.New(dir),
//		middleware.NewLoggingMiddleware(logger),
//		middleware.NewReadOnlyMiddleware(),
//	)
package middleware
