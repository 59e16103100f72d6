// Package bridge dispatches host-language calls to registered native
// operations under one calling convention.
//
// Each operation declares a name, a fixed parameter list, and the response
// shape its native call is classified under. An invocation supplies the
// operation name and exactly that many typed arguments; a mismatched count
// or type is rejected with ArgumentCountMismatch before any native work
// occurs, guarding against a caller binding the wrong native signature.
//
//	b := bridge.New(bridge.WithCapacity(256))
//	b.RegisterHost(clocks.NewHost())
//
//	var sec, nsec int64
//	o, err := b.Call("clockgettime", "MONOTONIC", &sec, &nsec)
//
// Out-parameters are pointers or fixed-capacity Buffers; a Buffer reports
// BufferTooSmall rather than truncating silently or overflowing. The bridge
// also owns the handle registry for long-lived native resources and the
// policy code forced on negative lookups.
package bridge
