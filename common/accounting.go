package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const storageUsageKey = "u"

// StorageUsage returns the number of bytes currently occupied by metered
// registry entries. Only entries written through MeteredPut/MeteredDelete
// are counted; bookkeeping keys (counters, config, refund queue) are not.
func StorageUsage(ctx storage.Context) int {
	usage := storage.Get(ctx, storageUsageKey)
	if usage != nil {
		return usage.(int)
	}

	return 0
}

// MeteredPut puts a value into contract storage and adjusts the metered
// usage counter by the size difference against the previously stored value.
func MeteredPut(ctx storage.Context, key, value []byte) {
	usage := StorageUsage(ctx)

	old := storage.Get(ctx, key)
	if old != nil {
		usage -= len(key) + len(old.([]byte))
	}
	usage += len(key) + len(value)

	storage.Put(ctx, key, value)
	storage.Put(ctx, storageUsageKey, usage)
}

// MeteredPutSerialized is MeteredPut for structures, serialized the same
// way SetSerialized does it.
func MeteredPutSerialized(ctx storage.Context, key []byte, value interface{}) {
	MeteredPut(ctx, key, std.Serialize(value))
}

// MeteredDelete removes a key from contract storage and releases its
// metered bytes. Removing an absent key is a no-op.
func MeteredDelete(ctx storage.Context, key []byte) {
	old := storage.Get(ctx, key)
	if old == nil {
		return
	}

	usage := StorageUsage(ctx) - len(key) - len(old.([]byte))
	if usage < 0 {
		usage = 0
	}

	storage.Delete(ctx, key)
	storage.Put(ctx, storageUsageKey, usage)
}
