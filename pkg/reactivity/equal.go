package reactivity

import (
	"math"
	"reflect"
	"unsafe"
)

// SameValue reports whether a and b are the same value.
//
// There is no coercion: values of different dynamic types are never the
// same. Floats treat every NaN as the same value and keep +0 and -0
// apart. Maps, slices, funcs, channels and pointers compare by identity.
// Everything else compares with ==, falling back to identity-free deep
// comparison for structs holding incomparable fields.
func SameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && sameFloat(av, bv)
	case float32:
		bv, ok := b.(float32)
		return ok && sameFloat(float64(av), float64(bv))
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Func:
		return funcIdentity(a) == funcIdentity(b)
	case reflect.Map, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Float32, reflect.Float64:
		return sameFloat(va.Float(), vb.Float())
	case reflect.Complex64, reflect.Complex128:
		ca, cb := va.Complex(), vb.Complex()
		return sameFloat(real(ca), real(cb)) && sameFloat(imag(ca), imag(cb))
	}

	if va.Type().Comparable() {
		return comparableEqual(a, b)
	}
	return reflect.DeepEqual(a, b)
}

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b && math.Signbit(a) == math.Signbit(b)
}

// funcIdentity returns the closure object behind a func stored in an
// interface. reflect only exposes the code pointer, which every closure
// created from the same literal shares.
func funcIdentity(v any) unsafe.Pointer {
	return (*[2]unsafe.Pointer)(unsafe.Pointer(&v))[1]
}

// comparableEqual uses == but survives interface fields holding
// incomparable dynamic values.
func comparableEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}

// HasChanged is the negation of SameValue.
func HasChanged(next, prev any) bool {
	return !SameValue(next, prev)
}
