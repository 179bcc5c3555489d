package services

import "context"

// AccessPolicy answers whether the calling context may touch the sync
// configuration and the sync log.
type AccessPolicy interface {
	CanReadSyncConfig(ctx context.Context) bool
	CanWriteSyncLog(ctx context.Context) bool
}

// AllowAllPolicy grants every permission. Used when the service runs as the
// integration's own principal.
type AllowAllPolicy struct{}

func (AllowAllPolicy) CanReadSyncConfig(ctx context.Context) bool { return true }
func (AllowAllPolicy) CanWriteSyncLog(ctx context.Context) bool   { return true }

// StaticPolicy is a fixed set of grants
type StaticPolicy struct {
	ReadConfig   bool
	WriteSyncLog bool
}

func (p StaticPolicy) CanReadSyncConfig(ctx context.Context) bool { return p.ReadConfig }
func (p StaticPolicy) CanWriteSyncLog(ctx context.Context) bool   { return p.WriteSyncLog }
