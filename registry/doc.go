// Package registry issues bounded, opaque integer handles for native
// resources such as open directory streams.
//
// The host caller references a resource only by handle; it never sees a
// pointer or descriptor. Handles carry a generation counter alongside the
// slot index, so revoking a handle and reusing its slot cannot resurrect a
// stale integer held by the caller.
//
//	reg := registry.New(256)
//	h, err := reg.Register(stream)     // RegistryFull at capacity
//	v, ok := reg.Get(h)
//	v, err := reg.Revoke(h)            // HandleInvalid if unknown/revoked
//
// A single mutex guards register, lookup, and revoke as a unit, making the
// registry safe for concurrent callers.
package registry
