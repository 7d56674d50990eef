// Package storage provides namespaced, typed key/value persistence for
// device settings.
//
// Values are unsigned integers of a declared width (8 or 16 bits). Writes
// are staged on a Handle and made durable together by Commit; a read with
// the wrong width accessor fails with ErrTypeMismatch.
//
// Two backends are provided: SQLiteBackend (the nvs_entries table) and
// MemoryBackend (process lifetime only, used for tests and for devices
// without writable storage).
//
// Usage:
//
//	h, err := storage.Open(storage.NewSQLiteBackend(db.DB), "demo")
//	if err != nil {
//	    return err
//	}
//	_ = h.SetU16("hue", 240)
//	_ = h.SetU8("power", 1)
//	if err := h.Commit(ctx); err != nil {
//	    return err
//	}
package storage
