package system

import (
	"threshold.network/ibecore/curve"
	"threshold.network/ibecore/hashcurve"
)

// MapToPoint derives the order-q point associated with id under this
// descriptor's curve, per spec.md §4.4.
func MapToPoint(d *Descriptor, id string) curve.Point {
	return hashcurve.MapToPoint(d.Curve, id)
}

// MapBytesToPoint is MapToPoint generalized to an arbitrary byte string,
// used by package sig's certificate and message hashing.
func MapBytesToPoint(d *Descriptor, data []byte) curve.Point {
	return hashcurve.MapBytesToPoint(d.Curve, data)
}
