// Package handletable implements the broker's handle security kernel: the
// ownership-indexed map from an opaque handle to the zone that allocated it
// and the device resource it names.
//
// The table's defining property is that a lookup by a zone that does not
// own a handle fails identically to a lookup of a handle that was never
// allocated — both return ErrNotFound. A tenant probing the handle space for
// another tenant's allocations cannot distinguish "that handle belongs to
// someone else" from "that handle doesn't exist", so the handle space leaks
// no information about the allocations of other zones. This mirrors the
// teacher's sync.Map-backed OpenFile table (internal/adapter/smb/v2/handlers),
// generalized from a single-tenant file-handle index to one that must also
// enforce cross-tenant isolation.
package handletable
