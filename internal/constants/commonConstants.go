package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixCredentials    CachePrefix = "SYNC_CREDS"
	CachePrefixSyncDefinition CachePrefix = "SYNC_DEF_"
	CachePrefixFieldMappings  CachePrefix = "SYNC_MAP_"
)

// Redis stream used by the queued dispatcher
const (
	DispatchStreamName    = "record_sync:dispatch"
	DispatchConsumerGroup = "record-sync-workers"
)

// Redis pub/sub channel carrying config cache evictions between instances
const ConfigEvictionChannel = "record_sync:config_evictions"

// Dispatcher backends
const (
	DispatchBackendLocal = "local"
	DispatchBackendRedis = "redis"
)
