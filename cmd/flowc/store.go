package main

import (
	"log/slog"

	"github.com/aretw0/flowc/pkg/adapters/file"
	"github.com/aretw0/flowc/pkg/adapters/redis"
	"github.com/aretw0/flowc/pkg/persistence/middleware"
	"github.com/aretw0/flowc/pkg/session"
	"github.com/spf13/cobra"
)

// newManager builds the session manager over the file store in --dir, or
// over Redis when --redis is set. Redis also provides the cross-process lock.
func newManager(cmd *cobra.Command, logger *slog.Logger) (*session.Manager, func() error) {
	mws := []middleware.Middleware{middleware.NewLoggingMiddleware(logger)}
	if readOnly, _ := cmd.Flags().GetBool("read-only"); readOnly {
		mws = append(mws, middleware.NewReadOnlyMiddleware())
	}

	addr, _ := cmd.Flags().GetString("redis")
	if addr == "" {
		store := middleware.Chain(file.New(workDir(cmd)), mws...)
		return session.NewManager(store, session.WithLogger(logger)), func() error { return nil }
	}

	rs := redis.New(addr, "", 0)
	logger.Info("using redis program store", "address", addr)
	mgr := session.NewManager(middleware.Chain(rs, mws...),
		session.WithLocker(redis.NewLocker(rs.Client(), "flowc:lock:")),
		session.WithLogger(logger),
	)
	return mgr, rs.Close
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("redis", "", "Redis address (host:port); stores programs in Redis instead of --dir")
	cmd.Flags().Bool("read-only", false, "Reject edits to stored programs")
}
