// Package utils provides small helpers shared across packages, chiefly the
// conversion of loosely typed database column values (as returned when rows are
// scanned into maps) into Go scalars.
package utils
